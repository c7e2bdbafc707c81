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

type CooldownHistoryRepository struct {
	Col *mongo.Collection
}

func NewCooldownHistoryRepository(db *mongo.Database) *CooldownHistoryRepository {
	return &CooldownHistoryRepository{Col: db.Collection("cooldown_history")}
}

func (r *CooldownHistoryRepository) FindByUser(ctx context.Context, userID string) (*models.CooldownHistory, error) {
	var history models.CooldownHistory
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&history)
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// AppendEpisode pushes one episode onto the user's log, creating the log
// document on first use.
func (r *CooldownHistoryRepository) AppendEpisode(ctx context.Context, userID string, episode models.CooldownEpisode) error {
	now := time.Now().UTC()
	update := bson.M{
		"$push": bson.M{"episodes": episode},
		"$set":  bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID().Hex(),
			"user_id":    userID,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.Col.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts)
	return err
}

func (r *CooldownHistoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
