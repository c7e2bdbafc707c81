package service

import (
	"context"
	"errors"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionService struct {
	Questions   QuestionStore
	Assessments AssessmentStore
	Results     ResultStore
}

func NewQuestionService(questions QuestionStore, assessments AssessmentStore, results ResultStore) *QuestionService {
	return &QuestionService{Questions: questions, Assessments: assessments, Results: results}
}

func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) error {
	return s.Questions.Create(ctx, question)
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.Questions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) ListQuestions(ctx context.Context, limit, skip int64) ([]models.Question, error) {
	return s.Questions.FindAll(ctx, limit, skip)
}

func (s *QuestionService) ListQuestionsByTags(ctx context.Context, tags []string, limit, skip int64) ([]models.Question, error) {
	return s.Questions.FindByTags(ctx, tags, limit, skip)
}

func (s *QuestionService) ListQuestionsByAssessment(ctx context.Context, assessmentID string) ([]models.Question, error) {
	return s.Questions.FindByAssessmentID(ctx, assessmentID)
}

// snapshotFields are the question fields denormalized into result snapshots.
var snapshotFields = map[string]struct{}{
	"text":           {},
	"options":        {},
	"correct_answer": {},
	"tags":           {},
}

// UpdateQuestion edits the question and, when content fields changed,
// propagates the edit into the snapshots embedded in historical results.
// The propagation is a rare batch update, not a live join.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update bson.M) error {
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return err
	}
	if err := s.Questions.Update(ctx, id, update); err != nil {
		return err
	}

	propagate := bson.M{}
	for field, value := range update {
		if _, ok := snapshotFields[field]; ok {
			propagate[field] = value
		}
	}
	if len(propagate) == 0 {
		return nil
	}
	return s.Results.UpdateEmbeddedQuestion(ctx, id, propagate)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return err
	}
	return s.Questions.Delete(ctx, id)
}

// AttachToAssessment registers the assessment on the question's owning set.
func (s *QuestionService) AttachToAssessment(ctx context.Context, questionID, assessmentID string) error {
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return err
	}
	if _, err := s.Assessments.FindByID(ctx, assessmentID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAssessmentNotFound
		}
		return err
	}
	return s.Questions.AddAssessmentID(ctx, questionID, assessmentID)
}

func (s *QuestionService) DetachFromAssessment(ctx context.Context, questionID, assessmentID string) error {
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return err
	}
	if _, err := s.Assessments.FindByID(ctx, assessmentID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAssessmentNotFound
		}
		return err
	}
	return s.Questions.RemoveAssessmentID(ctx, questionID, assessmentID)
}
