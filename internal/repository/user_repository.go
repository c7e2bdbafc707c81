package repository

import (
	"context"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Find(ctx context.Context, filter bson.M, limit int64) ([]models.User, error) {
	opts := options.Find().SetLimit(limit)
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// FindWithCourse returns users whose progress includes the course, excluding
// one user ID. Backs the collaborative strategy.
func (r *UserRepository) FindWithCourse(ctx context.Context, courseID, excludeUserID string, limit int64) ([]models.User, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"progress.completed_courses": courseID},
			{"progress.in_progress_course": courseID},
		},
		"_id": bson.M{"$ne": excludeUserID},
	}
	return r.Find(ctx, filter, limit)
}

// SetCooldown writes the live cooldown field; a nil cooldown unsets it.
func (r *UserRepository) SetCooldown(ctx context.Context, userID string, cooldown *models.Cooldown) error {
	var update bson.M
	if cooldown == nil {
		update = bson.M{"$unset": bson.M{"cooldown": ""}}
	} else {
		update = bson.M{"$set": bson.M{"cooldown": cooldown}}
	}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (r *UserRepository) UpdateProgress(ctx context.Context, userID string, progress models.Progress) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"progress": progress, "updated_at": time.Now().UTC()}},
	)
	return err
}

// UpdatePreferences applies only the provided preference fields.
func (r *UserRepository) UpdatePreferences(ctx context.Context, userID string, fields bson.M) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set["preferences."+k] = v
	}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	return err
}
