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

type LearningPathRepository struct {
	Col *mongo.Collection
}

func NewLearningPathRepository(db *mongo.Database) *LearningPathRepository {
	return &LearningPathRepository{Col: db.Collection("learning_paths")}
}

func (r *LearningPathRepository) Create(ctx context.Context, path *models.LearningPath) error {
	if path.ID == "" {
		path.ID = primitive.NewObjectID().Hex()
	}
	path.CreatedAt = time.Now().UTC()
	_, err := r.Col.InsertOne(ctx, path)
	return err
}

func (r *LearningPathRepository) FindByID(ctx context.Context, id string) (*models.LearningPath, error) {
	var path models.LearningPath
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&path)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

func (r *LearningPathRepository) Find(ctx context.Context, filter bson.M, limit int64) ([]models.LearningPath, error) {
	opts := options.Find().SetLimit(limit)
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var paths []models.LearningPath
	for cur.Next(ctx) {
		var p models.LearningPath
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (r *LearningPathRepository) FindBySkill(ctx context.Context, skill string, limit int64) ([]models.LearningPath, error) {
	return r.Find(ctx, bson.M{"target_skills": skill}, limit)
}

// FindNextLevelBySkill returns paths that require the skill as a prerequisite
// but teach something beyond it, excluding paths that only re-teach it.
func (r *LearningPathRepository) FindNextLevelBySkill(ctx context.Context, skill string, limit int64) ([]models.LearningPath, error) {
	filter := bson.M{
		"prerequisites.skills": skill,
		"target_skills":        bson.M{"$ne": skill},
	}
	return r.Find(ctx, filter, limit)
}

func (r *LearningPathRepository) FindPopular(ctx context.Context, limit int64) ([]models.LearningPath, error) {
	return r.Find(ctx, bson.M{}, limit)
}
