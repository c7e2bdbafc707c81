package service

import (
	"context"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Narrow store interfaces over the Mongo repositories. Services depend on
// these so the business logic can be exercised against in-memory fakes.

type QuestionStore interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id string) (*models.Question, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Question, error)
	FindByTags(ctx context.Context, tags []string, limit, skip int64) ([]models.Question, error)
	FindByAssessmentID(ctx context.Context, assessmentID string) ([]models.Question, error)
	FindAll(ctx context.Context, limit, skip int64) ([]models.Question, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
	AddAssessmentID(ctx context.Context, questionID, assessmentID string) error
	RemoveAssessmentID(ctx context.Context, questionID, assessmentID string) error
	DetachAssessment(ctx context.Context, assessmentID string) error
}

type AssessmentStore interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	FindByID(ctx context.Context, id string) (*models.Assessment, error)
	FindByCourseID(ctx context.Context, courseID string) ([]models.Assessment, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

type ResultStore interface {
	Create(ctx context.Context, result *models.AssessmentResult) error
	FindByUser(ctx context.Context, userID string, limit, skip int64) ([]models.AssessmentResult, error)
	FindByAssessment(ctx context.Context, assessmentID string, limit, skip int64) ([]models.AssessmentResult, error)
	FindLatestByUserAndAssessment(ctx context.Context, userID, assessmentID string) (*models.AssessmentResult, error)
	FindLatestByUserAndAssessmentIDs(ctx context.Context, userID string, assessmentIDs []string) (*models.AssessmentResult, error)
	AverageScore(ctx context.Context, assessmentID string) (float64, error)
	UpdateEmbeddedQuestion(ctx context.Context, questionID string, fields bson.M) error
	DeleteByAssessment(ctx context.Context, assessmentID string) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindWithCourse(ctx context.Context, courseID, excludeUserID string, limit int64) ([]models.User, error)
	SetCooldown(ctx context.Context, userID string, cooldown *models.Cooldown) error
	UpdateProgress(ctx context.Context, userID string, progress models.Progress) error
	UpdatePreferences(ctx context.Context, userID string, fields bson.M) error
}

type CourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCategory(ctx context.Context, category string, limit int64) ([]models.Course, error)
	FindByTagIntersection(ctx context.Context, tags []string, limit int64) ([]models.Course, error)
	FindByPreferences(ctx context.Context, categories, skills []string, difficulty string, limit int64) ([]models.Course, error)
	FindPopular(ctx context.Context, limit int64) ([]models.Course, error)
	IncrementEnrollment(ctx context.Context, id string) error
	IncrementCompletion(ctx context.Context, id string) error
}

type LearningPathStore interface {
	FindBySkill(ctx context.Context, skill string, limit int64) ([]models.LearningPath, error)
	FindNextLevelBySkill(ctx context.Context, skill string, limit int64) ([]models.LearningPath, error)
	FindPopular(ctx context.Context, limit int64) ([]models.LearningPath, error)
}

type CooldownHistoryStore interface {
	FindByUser(ctx context.Context, userID string) (*models.CooldownHistory, error)
	AppendEpisode(ctx context.Context, userID string, episode models.CooldownEpisode) error
	Delete(ctx context.Context, id string) error
}

type ConceptLinkStore interface {
	Create(ctx context.Context, link *models.ConceptLink) error
	FindByID(ctx context.Context, id string) (*models.ConceptLink, error)
	FindAll(ctx context.Context, limit, skip int64) ([]models.ConceptLink, error)
	SearchFirst(ctx context.Context, query string) (*models.ConceptLink, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}
