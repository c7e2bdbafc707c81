package repository

import (
	"context"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssessmentRepository struct {
	Col *mongo.Collection
}

func NewAssessmentRepository(db *mongo.Database) *AssessmentRepository {
	return &AssessmentRepository{Col: db.Collection("assessments")}
}

func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = primitive.NewObjectID().Hex()
	}
	assessment.CreatedAt = time.Now().UTC()
	_, err := r.Col.InsertOne(ctx, assessment)
	return err
}

func (r *AssessmentRepository) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&assessment)
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentRepository) FindByCourseID(ctx context.Context, courseID string) ([]models.Assessment, error) {
	cur, err := r.Col.Find(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var assessments []models.Assessment
	for cur.Next(ctx) {
		var a models.Assessment
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, nil
}

func (r *AssessmentRepository) Update(ctx context.Context, id string, update bson.M) error {
	update["updated_at"] = time.Now().UTC()
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *AssessmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
