package service

import (
	"context"
	"errors"
	"testing"

	"learning-service/internal/models"
)

func newUserFixture() (*UserService, *fakeUserStore, *fakeCourseStore) {
	users := &fakeUserStore{}
	courses := &fakeCourseStore{}
	svc := NewUserService(users, courses)
	return svc, users, courses
}

func TestStartCourse(t *testing.T) {
	svc, users, courses := newUserFixture()
	users.users = []models.User{{ID: "u1", Progress: models.Progress{InProgressCourse: "old"}}}
	courses.courses = []models.Course{{ID: "c1"}}

	if err := svc.StartCourse(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if users.users[0].Progress.InProgressCourse != "c1" {
		t.Errorf("Expected in-progress course replaced, got %q", users.users[0].Progress.InProgressCourse)
	}
	if courses.courses[0].EnrollmentCount != 1 {
		t.Errorf("Expected enrollment incremented, got %d", courses.courses[0].EnrollmentCount)
	}
}

func TestStartCourseUnknownCourse(t *testing.T) {
	svc, users, _ := newUserFixture()
	users.users = []models.User{{ID: "u1"}}
	if err := svc.StartCourse(context.Background(), "u1", "missing"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Expected ErrCourseNotFound, got %v", err)
	}
}

func TestCompleteCourse(t *testing.T) {
	svc, users, courses := newUserFixture()
	users.users = []models.User{{ID: "u1", Progress: models.Progress{InProgressCourse: "c1"}}}
	courses.courses = []models.Course{{ID: "c1"}}

	if err := svc.CompleteCourse(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	progress := users.users[0].Progress
	if progress.InProgressCourse != "" {
		t.Errorf("Expected in-progress cleared, got %q", progress.InProgressCourse)
	}
	if !containsString(progress.CompletedCourses, "c1") {
		t.Errorf("Expected c1 in completed set, got %v", progress.CompletedCourses)
	}
	if courses.courses[0].CompletionCount != 1 {
		t.Errorf("Expected completion incremented, got %d", courses.courses[0].CompletionCount)
	}
}

func TestCompleteCourseNotInProgress(t *testing.T) {
	svc, users, _ := newUserFixture()
	users.users = []models.User{{ID: "u1", Progress: models.Progress{InProgressCourse: "c1"}}}
	if err := svc.CompleteCourse(context.Background(), "u1", "other"); err == nil {
		t.Error("Expected error completing a course that is not in progress")
	}
}

func TestCompleteCourseDeduplicates(t *testing.T) {
	svc, users, courses := newUserFixture()
	users.users = []models.User{{ID: "u1", Progress: models.Progress{
		CompletedCourses: []string{"c1"},
		InProgressCourse: "c1",
	}}}
	courses.courses = []models.Course{{ID: "c1"}}

	if err := svc.CompleteCourse(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(users.users[0].Progress.CompletedCourses) != 1 {
		t.Errorf("Expected completed set deduplicated, got %v", users.users[0].Progress.CompletedCourses)
	}
}

func TestUpdatePreferencesPartialPatch(t *testing.T) {
	svc, users, _ := newUserFixture()
	users.users = []models.User{{ID: "u1", Preferences: models.Preferences{
		Categories: []string{"old"},
		Difficulty: "beginner",
	}}}

	difficulty := "advanced"
	err := svc.UpdatePreferences(context.Background(), "u1", PreferencesPatch{Difficulty: &difficulty})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	prefs := users.users[0].Preferences
	if prefs.Difficulty != "advanced" {
		t.Errorf("Expected difficulty updated, got %q", prefs.Difficulty)
	}
	if len(prefs.Categories) != 1 || prefs.Categories[0] != "old" {
		t.Errorf("Expected untouched categories, got %v", prefs.Categories)
	}
}

func TestUpdatePreferencesUnknownUser(t *testing.T) {
	svc, _, _ := newUserFixture()
	err := svc.UpdatePreferences(context.Background(), "missing", PreferencesPatch{})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
