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

type CourseRepository struct {
	Col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{Col: db.Collection("courses")}
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = primitive.NewObjectID().Hex()
	}
	course.CreatedAt = time.Now().UTC()
	_, err := r.Col.InsertOne(ctx, course)
	return err
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Find(ctx context.Context, filter bson.M, limit, skip int64) ([]models.Course, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip)
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var courses []models.Course
	for cur.Next(ctx) {
		var c models.Course
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (r *CourseRepository) FindByCategory(ctx context.Context, category string, limit int64) ([]models.Course, error) {
	return r.Find(ctx, bson.M{"category": category}, limit, 0)
}

// FindByTagIntersection returns courses whose content tags intersect the
// given tags.
func (r *CourseRepository) FindByTagIntersection(ctx context.Context, tags []string, limit int64) ([]models.Course, error) {
	return r.Find(ctx, bson.M{"content.tags": bson.M{"$in": tags}}, limit, 0)
}

// FindPopular lists courses by enrollment, most enrolled first.
func (r *CourseRepository) FindPopular(ctx context.Context, limit int64) ([]models.Course, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "enrollment_count", Value: -1}}).
		SetLimit(limit)
	cur, err := r.Col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var courses []models.Course
	for cur.Next(ctx) {
		var c models.Course
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// FindByPreferences builds the combined preference filter. Empty arguments
// drop their clause, so a categories-only call is the relaxed query.
func (r *CourseRepository) FindByPreferences(ctx context.Context, categories, skills []string, difficulty string, limit int64) ([]models.Course, error) {
	filter := bson.M{}
	if len(categories) > 0 {
		filter["category"] = bson.M{"$in": categories}
	}
	if len(skills) > 0 {
		filter["content.tags"] = bson.M{"$in": skills}
	}
	if difficulty != "" {
		filter["difficulty"] = difficulty
	}
	return r.Find(ctx, filter, limit, 0)
}

func (r *CourseRepository) IncrementEnrollment(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"enrollment_count": 1}})
	return err
}

func (r *CourseRepository) IncrementCompletion(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"completion_count": 1}})
	return err
}
