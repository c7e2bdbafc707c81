package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learning-service/internal/config"
	"learning-service/internal/models"
	"learning-service/internal/selection"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ScoreOutcome is the result of grading one set of submitted answers.
type ScoreOutcome struct {
	Score                 float64  `json:"score"`
	Passed                bool     `json:"passed"`
	KnowledgeGaps         []string `json:"knowledge_gaps"`
	DemonstratedStrengths []string `json:"demonstrated_strengths"`
}

type AssessmentService struct {
	Assessments AssessmentStore
	Questions   QuestionStore
	Results     ResultStore
	cfg         *config.Config

	questionPicker *selection.Picker
}

func NewAssessmentService(assessments AssessmentStore, questions QuestionStore, results ResultStore, cfg *config.Config) *AssessmentService {
	return &AssessmentService{
		Assessments: assessments,
		Questions:   questions,
		Results:     results,
		cfg:         cfg,
	}
}

// Score grades answers positionally against the assessment's question list.
// A question whose answer matches exactly contributes its tags to the
// demonstrated strengths; any other question (including unanswered positions
// when the answer list is short) contributes its tags to the knowledge gaps.
func (s *AssessmentService) Score(ctx context.Context, assessmentID string, answers []string) (*ScoreOutcome, error) {
	questions, err := s.orderedQuestions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return s.grade(questions, answers), nil
}

func (s *AssessmentService) grade(questions []models.Question, answers []string) *ScoreOutcome {
	correct := 0
	gaps := newTagSet()
	strengths := newTagSet()

	for i, question := range questions {
		if i < len(answers) && answers[i] == question.CorrectAnswer {
			correct++
			strengths.add(question.Tags...)
		} else {
			gaps.add(question.Tags...)
		}
	}

	score := 0.0
	if len(questions) > 0 {
		score = float64(correct) / float64(len(questions))
	}

	return &ScoreOutcome{
		Score:                 score,
		Passed:                score >= s.cfg.PassThreshold,
		KnowledgeGaps:         gaps.values(),
		DemonstratedStrengths: strengths.values(),
	}
}

// CanTake applies the retake policy: a passed assessment is closed forever,
// a failed one reopens once the cooldown window has elapsed. The returned
// reason is empty exactly when the user is eligible.
func (s *AssessmentService) CanTake(ctx context.Context, userID, assessmentID string) (bool, string, error) {
	return s.canTakeAt(ctx, userID, assessmentID, time.Now().UTC())
}

func (s *AssessmentService) canTakeAt(ctx context.Context, userID, assessmentID string, now time.Time) (bool, string, error) {
	latest, err := s.Results.FindLatestByUserAndAssessment(ctx, userID, assessmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return true, "", nil
		}
		return false, "", err
	}

	if latest.Passed {
		return false, "You have already passed this assessment", nil
	}

	retryAt := latest.CreatedAt.Add(time.Duration(s.cfg.CooldownHours) * time.Hour)
	if now.Before(retryAt) {
		remaining := int(retryAt.Sub(now).Hours())
		return false, fmt.Sprintf("You can retake this assessment in %d hours", remaining), nil
	}
	return true, "", nil
}

// Submit runs the full attempt sequence: eligibility check, scoring, question
// snapshot resolution, then a single result insert. All lookups happen before
// the write, so a failed submission leaves nothing behind. Cooldown state is
// deliberately not touched here; the caller applies that rule from the
// returned result.
func (s *AssessmentService) Submit(ctx context.Context, userID, assessmentID string, answers []string, startedAt time.Time) (*models.AssessmentResult, error) {
	return s.submitAt(ctx, userID, assessmentID, answers, startedAt, time.Now().UTC())
}

func (s *AssessmentService) submitAt(ctx context.Context, userID, assessmentID string, answers []string, startedAt, now time.Time) (*models.AssessmentResult, error) {
	ok, reason, err := s.canTakeAt(ctx, userID, assessmentID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIneligible, reason)
	}

	assessment, err := s.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionsFor(ctx, assessment)
	if err != nil {
		return nil, err
	}
	outcome := s.grade(questions, answers)

	result := &models.AssessmentResult{
		UserID:                userID,
		AssessmentID:          assessmentID,
		CourseID:              assessment.CourseID,
		Answers:               answers,
		Questions:             questions,
		Score:                 outcome.Score,
		Passed:                outcome.Passed,
		KnowledgeGaps:         outcome.KnowledgeGaps,
		DemonstratedStrengths: outcome.DemonstratedStrengths,
		StartedAt:             startedAt,
		CompletedAt:           now,
		ElapsedSeconds:        int(now.Sub(startedAt).Seconds()),
	}
	if err := s.Results.Create(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ShouldTriggerCooldown reports whether a score is low enough to start a
// cooldown. Separate knob from the pass threshold on purpose.
func (s *AssessmentService) ShouldTriggerCooldown(result *models.AssessmentResult) bool {
	return result.Score < s.cfg.CooldownTrigger
}

// orderedQuestions resolves the assessment's questions in stored order.
func (s *AssessmentService) orderedQuestions(ctx context.Context, assessmentID string) ([]models.Question, error) {
	assessment, err := s.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return s.questionsFor(ctx, assessment)
}

func (s *AssessmentService) questionsFor(ctx context.Context, assessment *models.Assessment) ([]models.Question, error) {
	if len(assessment.QuestionIDs) == 0 {
		return nil, nil
	}

	found, err := s.Questions.FindByIDs(ctx, assessment.QuestionIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	ordered := make([]models.Question, 0, len(assessment.QuestionIDs))
	for _, id := range assessment.QuestionIDs {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

func (s *AssessmentService) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	assessment, err := s.Assessments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return assessment, nil
}

// GetAssessmentForCourse returns the course's prerequisite assessment.
func (s *AssessmentService) GetAssessmentForCourse(ctx context.Context, courseID string) (*models.Assessment, error) {
	assessments, err := s.Assessments.FindByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return nil, ErrAssessmentNotFound
	}
	return &assessments[0], nil
}

func (s *AssessmentService) GetResultsByUser(ctx context.Context, userID string, limit, skip int64) ([]models.AssessmentResult, error) {
	return s.Results.FindByUser(ctx, userID, limit, skip)
}

func (s *AssessmentService) GetResultsByAssessment(ctx context.Context, assessmentID string, limit, skip int64) ([]models.AssessmentResult, error) {
	return s.Results.FindByAssessment(ctx, assessmentID, limit, skip)
}

// GetLatestResultForCourse finds the user's newest attempt at any of the
// course's assessments. Used by the advice endpoint.
func (s *AssessmentService) GetLatestResultForCourse(ctx context.Context, userID, courseID string) (*models.AssessmentResult, error) {
	assessments, err := s.Assessments.FindByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return nil, ErrResultNotFound
	}
	ids := make([]string, 0, len(assessments))
	for _, a := range assessments {
		ids = append(ids, a.ID)
	}
	result, err := s.Results.FindLatestByUserAndAssessmentIDs(ctx, userID, ids)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *AssessmentService) AverageScore(ctx context.Context, assessmentID string) (float64, error) {
	avg, err := s.Results.AverageScore(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrResultNotFound
		}
		return 0, err
	}
	return avg, nil
}

// CreateAssessment stores the assessment and registers it on each question's
// owning-assessment set.
func (s *AssessmentService) CreateAssessment(ctx context.Context, assessment *models.Assessment) error {
	for _, qid := range assessment.QuestionIDs {
		if _, err := s.Questions.FindByID(ctx, qid); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return fmt.Errorf("%w: %s", ErrQuestionNotFound, qid)
			}
			return err
		}
	}
	if err := s.Assessments.Create(ctx, assessment); err != nil {
		return err
	}
	for _, qid := range assessment.QuestionIDs {
		if err := s.Questions.AddAssessmentID(ctx, qid, assessment.ID); err != nil {
			return err
		}
	}
	return nil
}

// GenerateAssessment builds an assessment for a course by weighted random
// selection from the questions tagged with the requested concepts. The pool is
// fetched larger than the target count so the picker has room to weigh
// multi-tag matches.
func (s *AssessmentService) GenerateAssessment(ctx context.Context, courseID, title string, tags []string, count int) (*models.Assessment, error) {
	if count <= 0 {
		count = 10
	}
	pool, err := s.Questions.FindByTags(ctx, tags, int64(count*5), 0)
	if err != nil {
		return nil, err
	}
	picked := s.picker().Pick(pool, selection.Criteria{Tags: tags, Count: count})
	if len(picked) == 0 {
		return nil, fmt.Errorf("%w: no questions tagged %v", ErrQuestionNotFound, tags)
	}

	ids := make([]string, len(picked))
	for i, q := range picked {
		ids[i] = q.ID
	}
	assessment := &models.Assessment{
		Title:       title,
		CourseID:    courseID,
		QuestionIDs: ids,
	}
	if err := s.CreateAssessment(ctx, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

func (s *AssessmentService) picker() *selection.Picker {
	if s.questionPicker == nil {
		s.questionPicker = selection.NewPicker()
	}
	return s.questionPicker
}

func (s *AssessmentService) UpdateAssessment(ctx context.Context, id string, update bson.M) error {
	if _, err := s.GetAssessment(ctx, id); err != nil {
		return err
	}
	return s.Assessments.Update(ctx, id, update)
}

// DeleteAssessment cascades: the assessment ID is pulled from every question
// and all of its results are removed.
func (s *AssessmentService) DeleteAssessment(ctx context.Context, id string) error {
	if _, err := s.GetAssessment(ctx, id); err != nil {
		return err
	}
	if err := s.Questions.DetachAssessment(ctx, id); err != nil {
		return err
	}
	if err := s.Results.DeleteByAssessment(ctx, id); err != nil {
		return err
	}
	return s.Assessments.Delete(ctx, id)
}

// tagSet keeps tag insertion order while deduplicating.
type tagSet struct {
	seen  map[string]struct{}
	items []string
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]struct{})}
}

func (t *tagSet) add(tags ...string) {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := t.seen[tag]; ok {
			continue
		}
		t.seen[tag] = struct{}{}
		t.items = append(t.items, tag)
	}
}

func (t *tagSet) values() []string {
	if t.items == nil {
		return []string{}
	}
	return t.items
}
