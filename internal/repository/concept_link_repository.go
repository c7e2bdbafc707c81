package repository

import (
	"context"
	"regexp"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConceptLinkRepository struct {
	Col *mongo.Collection
}

func NewConceptLinkRepository(db *mongo.Database) *ConceptLinkRepository {
	return &ConceptLinkRepository{Col: db.Collection("concept_links")}
}

func (r *ConceptLinkRepository) Create(ctx context.Context, link *models.ConceptLink) error {
	if link.ID == "" {
		link.ID = primitive.NewObjectID().Hex()
	}
	link.CreatedAt = time.Now().UTC()
	_, err := r.Col.InsertOne(ctx, link)
	return err
}

func (r *ConceptLinkRepository) FindByID(ctx context.Context, id string) (*models.ConceptLink, error) {
	var link models.ConceptLink
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *ConceptLinkRepository) FindAll(ctx context.Context, limit, skip int64) ([]models.ConceptLink, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip)
	cur, err := r.Col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var links []models.ConceptLink
	for cur.Next(ctx) {
		var l models.ConceptLink
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, nil
}

// SearchFirst returns the first concept link whose concepts match the query
// as a case-insensitive substring, or mongo.ErrNoDocuments.
func (r *ConceptLinkRepository) SearchFirst(ctx context.Context, query string) (*models.ConceptLink, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	var link models.ConceptLink
	err := r.Col.FindOne(ctx, bson.M{"concepts": pattern}).Decode(&link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *ConceptLinkRepository) Update(ctx context.Context, id string, update bson.M) error {
	update["updated_at"] = time.Now().UTC()
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *ConceptLinkRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
