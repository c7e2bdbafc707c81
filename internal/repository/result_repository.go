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

type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection("assessment_results")}
}

func (r *ResultRepository) Create(ctx context.Context, result *models.AssessmentResult) error {
	if result.ID == "" {
		result.ID = primitive.NewObjectID().Hex()
	}
	result.CreatedAt = time.Now().UTC()
	_, err := r.Col.InsertOne(ctx, result)
	return err
}

func (r *ResultRepository) FindByUser(ctx context.Context, userID string, limit, skip int64) ([]models.AssessmentResult, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var results []models.AssessmentResult
	for cur.Next(ctx) {
		var res models.AssessmentResult
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *ResultRepository) FindByAssessment(ctx context.Context, assessmentID string, limit, skip int64) ([]models.AssessmentResult, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	cur, err := r.Col.Find(ctx, bson.M{"assessment_id": assessmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var results []models.AssessmentResult
	for cur.Next(ctx) {
		var res models.AssessmentResult
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// FindLatestByUserAndAssessment returns the newest attempt for the pair, or
// mongo.ErrNoDocuments when the user has never taken the assessment.
func (r *ResultRepository) FindLatestByUserAndAssessment(ctx context.Context, userID, assessmentID string) (*models.AssessmentResult, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var result models.AssessmentResult
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "assessment_id": assessmentID}, opts).Decode(&result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindLatestByUserAndAssessmentIDs returns the newest attempt across any of
// the given assessments, used to look results up by course.
func (r *ResultRepository) FindLatestByUserAndAssessmentIDs(ctx context.Context, userID string, assessmentIDs []string) (*models.AssessmentResult, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	filter := bson.M{"user_id": userID, "assessment_id": bson.M{"$in": assessmentIDs}}
	var result models.AssessmentResult
	err := r.Col.FindOne(ctx, filter, opts).Decode(&result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AverageScore aggregates the mean score over all attempts of one assessment.
func (r *ResultRepository) AverageScore(ctx context.Context, assessmentID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"assessment_id": assessmentID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"average_score": bson.M{"$avg": "$score"},
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		return 0, mongo.ErrNoDocuments
	}
	var doc struct {
		AverageScore float64 `bson:"average_score"`
	}
	if err := cur.Decode(&doc); err != nil {
		return 0, err
	}
	return doc.AverageScore, nil
}

// UpdateEmbeddedQuestion rewrites one embedded question snapshot across all
// historical results, keyed by the snapshot's question ID. Deliberately a
// batch update: results are otherwise immutable.
func (r *ResultRepository) UpdateEmbeddedQuestion(ctx context.Context, questionID string, fields bson.M) error {
	set := bson.M{}
	for k, v := range fields {
		set["questions.$[q]."+k] = v
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"q._id": questionID}},
	})
	_, err := r.Col.UpdateMany(ctx,
		bson.M{"questions._id": questionID},
		bson.M{"$set": set},
		opts,
	)
	return err
}

func (r *ResultRepository) DeleteByAssessment(ctx context.Context, assessmentID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"assessment_id": assessmentID})
	return err
}
