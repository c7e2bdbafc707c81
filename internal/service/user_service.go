package service

import (
	"context"
	"errors"
	"fmt"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService struct {
	Users   UserStore
	Courses CourseStore
}

func NewUserService(users UserStore, courses CourseStore) *UserService {
	return &UserService{Users: users, Courses: courses}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// StartCourse sets the user's single in-progress course. Starting a new
// course while another is in progress replaces it; only one course can be in
// progress at a time.
func (s *UserService) StartCourse(ctx context.Context, userID, courseID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.Courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrCourseNotFound
		}
		return err
	}

	progress := user.Progress
	progress.InProgressCourse = courseID
	if err := s.Users.UpdateProgress(ctx, userID, progress); err != nil {
		return err
	}
	return s.Courses.IncrementEnrollment(ctx, courseID)
}

// CompleteCourse moves the in-progress course into the completed set.
func (s *UserService) CompleteCourse(ctx context.Context, userID, courseID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Progress.InProgressCourse != courseID {
		return fmt.Errorf("course %s is not in progress", courseID)
	}

	progress := user.Progress
	progress.InProgressCourse = ""
	already := false
	for _, id := range progress.CompletedCourses {
		if id == courseID {
			already = true
			break
		}
	}
	if !already {
		progress.CompletedCourses = append(progress.CompletedCourses, courseID)
	}
	if err := s.Users.UpdateProgress(ctx, userID, progress); err != nil {
		return err
	}
	return s.Courses.IncrementCompletion(ctx, courseID)
}

// PreferencesPatch carries the independently optional preference fields; nil
// fields are left untouched.
type PreferencesPatch struct {
	Categories     *[]string `json:"categories"`
	Skills         *[]string `json:"skills"`
	Difficulty     *string   `json:"difficulty"`
	LearningStyle  *string   `json:"learning_style"`
	TimeCommitment *string   `json:"time_commitment"`
	Goals          *[]string `json:"goals"`
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID string, patch PreferencesPatch) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}

	fields := bson.M{}
	if patch.Categories != nil {
		fields["categories"] = *patch.Categories
	}
	if patch.Skills != nil {
		fields["skills"] = *patch.Skills
	}
	if patch.Difficulty != nil {
		fields["difficulty"] = *patch.Difficulty
	}
	if patch.LearningStyle != nil {
		fields["learning_style"] = *patch.LearningStyle
	}
	if patch.TimeCommitment != nil {
		fields["time_commitment"] = *patch.TimeCommitment
	}
	if patch.Goals != nil {
		fields["goals"] = *patch.Goals
	}
	if len(fields) == 0 {
		return nil
	}
	return s.Users.UpdatePreferences(ctx, userID, fields)
}
