package repository

import (
	"context"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	question.CreatedAt = time.Now().UTC()
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *QuestionRepository) FindByTags(ctx context.Context, tags []string, limit, skip int64) ([]models.Question, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip)
	cur, err := r.Col.Find(ctx, bson.M{"tags": bson.M{"$in": tags}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *QuestionRepository) FindByAssessmentID(ctx context.Context, assessmentID string) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{"assessment_ids": assessmentID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *QuestionRepository) FindAll(ctx context.Context, limit, skip int64) ([]models.Question, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip)
	cur, err := r.Col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	update["updated_at"] = time.Now().UTC()
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *QuestionRepository) AddAssessmentID(ctx context.Context, questionID, assessmentID string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": questionID},
		bson.M{"$addToSet": bson.M{"assessment_ids": assessmentID}},
	)
	return err
}

func (r *QuestionRepository) RemoveAssessmentID(ctx context.Context, questionID, assessmentID string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": questionID},
		bson.M{"$pull": bson.M{"assessment_ids": assessmentID}},
	)
	return err
}

// DetachAssessment pulls the assessment ID from every question that carries it.
// Used by the assessment-delete cascade.
func (r *QuestionRepository) DetachAssessment(ctx context.Context, assessmentID string) error {
	_, err := r.Col.UpdateMany(ctx,
		bson.M{"assessment_ids": assessmentID},
		bson.M{"$pull": bson.M{"assessment_ids": assessmentID}},
	)
	return err
}
