package service

import (
	"context"
	"testing"
	"time"

	"learning-service/internal/models"
)

func newRecommendationFixture() (*RecommendationService, *fakeUserStore, *fakeResultStore, *fakeCourseStore, *fakePathStore) {
	users := &fakeUserStore{}
	results := &fakeResultStore{}
	courses := &fakeCourseStore{}
	paths := &fakePathStore{}
	svc := NewRecommendationService(users, results, courses, paths)
	return svc, users, results, courses, paths
}

func TestCourseRecommendationsUnknownUser(t *testing.T) {
	svc, _, _, _, _ := newRecommendationFixture()
	recs, err := svc.GetCourseRecommendations(context.Background(), "missing", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", recs)
	}
}

func TestCourseRecommendationsNoHistory(t *testing.T) {
	svc, users, _, courses, _ := newRecommendationFixture()
	users.users = []models.User{{ID: "u1"}}
	courses.courses = []models.Course{{ID: "c1", EnrollmentCount: 100}}

	recs, err := svc.GetCourseRecommendations(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations without assessment history, got %v", recs)
	}
}

func TestCourseRecommendationsMergeAndRank(t *testing.T) {
	svc, users, results, courses, _ := newRecommendationFixture()
	users.users = []models.User{
		{ID: "u1", Progress: models.Progress{CompletedCourses: []string{"c1"}}},
		{ID: "u2", Progress: models.Progress{CompletedCourses: []string{"c1", "c4"}}},
	}
	results.results = []models.AssessmentResult{{
		ID: "r1", UserID: "u1", AssessmentID: "a1",
		Passed: false, KnowledgeGaps: []string{"recursion"},
		CreatedAt: time.Now().UTC(),
	}}
	courses.courses = []models.Course{
		{ID: "c1", Category: "programming"},
		{ID: "c2", Category: "programming", Content: models.CourseContent{Tags: []string{"recursion"}}},
		{ID: "c3", Category: "programming"},
		{ID: "c4", Category: "databases"},
	}

	recs, err := svc.GetCourseRecommendations(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// c2 matches both the gap-driven and the content-based strategy; it must
	// appear once, ranked at the gap-driven tier ahead of everything else.
	want := []string{"c2", "c4", "c3"}
	if len(recs) != len(want) {
		t.Fatalf("Expected %v, got %+v", want, recs)
	}
	for i, id := range want {
		if recs[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, recs[i].ID)
		}
	}
	for _, rec := range recs {
		if rec.ID == "c1" {
			t.Error("Expected taken course c1 to be excluded")
		}
	}
}

func TestCourseRecommendationsHonorLimit(t *testing.T) {
	svc, users, results, courses, _ := newRecommendationFixture()
	users.users = []models.User{{ID: "u1"}}
	results.results = []models.AssessmentResult{{
		ID: "r1", UserID: "u1", Passed: false,
		KnowledgeGaps: []string{"sql", "indexes", "joins"},
	}}
	courses.courses = []models.Course{
		{ID: "c1", Content: models.CourseContent{Tags: []string{"sql"}}},
		{ID: "c2", Content: models.CourseContent{Tags: []string{"indexes"}}},
		{ID: "c3", Content: models.CourseContent{Tags: []string{"joins"}}},
	}

	recs, err := svc.GetCourseRecommendations(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("Expected limit 2 respected, got %d", len(recs))
	}
}

func TestCollaborativeOverlapOrdering(t *testing.T) {
	svc, users, _, courses, _ := newRecommendationFixture()
	// u2 shares two courses with u1, u3 shares one; u2's suggestion wins.
	users.users = []models.User{
		{ID: "u1", Progress: models.Progress{CompletedCourses: []string{"c1", "c2"}}},
		{ID: "u3", Progress: models.Progress{CompletedCourses: []string{"c1", "cY"}}},
		{ID: "u2", Progress: models.Progress{CompletedCourses: []string{"c1", "c2", "cX"}}},
	}
	courses.courses = []models.Course{
		{ID: "cX", Category: "a"},
		{ID: "cY", Category: "b"},
	}

	user, _ := users.FindByID(context.Background(), "u1")
	recs, err := svc.collaborativeCourses(context.Background(), user, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 collaborative candidates, got %+v", recs)
	}
	if recs[0].ID != "cX" || recs[1].ID != "cY" {
		t.Errorf("Expected overlap ordering [cX cY], got [%s %s]", recs[0].ID, recs[1].ID)
	}
}

func TestCollaborativeSkipsMissingCourses(t *testing.T) {
	svc, users, _, _, _ := newRecommendationFixture()
	users.users = []models.User{
		{ID: "u1", Progress: models.Progress{CompletedCourses: []string{"c1"}}},
		{ID: "u2", Progress: models.Progress{CompletedCourses: []string{"c1", "gone"}}},
	}

	user, _ := users.FindByID(context.Background(), "u1")
	recs, err := svc.collaborativeCourses(context.Background(), user, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected dangling course reference skipped, got %+v", recs)
	}
}

func TestLearningPathTiersAndDedup(t *testing.T) {
	svc, users, results, _, paths := newRecommendationFixture()
	users.users = []models.User{{ID: "u1"}}
	results.results = []models.AssessmentResult{{
		ID: "r1", UserID: "u1",
		Answers: []string{"wrong", "nil"},
		Questions: []models.Question{
			{ID: "q1", CorrectAnswer: "yes", Tags: []string{"recursion"}},
			{ID: "q2", CorrectAnswer: "nil", Tags: []string{"slices"}},
		},
	}}
	paths.paths = []models.LearningPath{
		{ID: "p1", TargetSkills: []string{"recursion"}},
		{ID: "p2", TargetSkills: []string{"generics"}, Prerequisites: models.PathPrerequisites{Skills: []string{"slices"}}},
		{ID: "p3", TargetSkills: []string{"unrelated"}},
	}

	recs, err := svc.GetLearningPathRecommendations(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []string{"p1", "p2", "p3"}
	if len(recs) != len(want) {
		t.Fatalf("Expected %v, got %+v", want, recs)
	}
	for i, id := range want {
		if recs[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, recs[i].ID)
		}
	}
	seen := make(map[string]int)
	for _, p := range recs {
		seen[p.ID]++
		if seen[p.ID] > 1 {
			t.Errorf("Path %s recommended more than once", p.ID)
		}
	}
}

func TestLearningPathUnknownUser(t *testing.T) {
	svc, _, _, _, _ := newRecommendationFixture()
	recs, err := svc.GetLearningPathRecommendations(context.Background(), "missing", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", recs)
	}
}

func TestPersonalizedExplicitPreferences(t *testing.T) {
	svc, users, _, courses, _ := newRecommendationFixture()
	users.users = []models.User{{
		ID: "u1",
		// Stored preferences point elsewhere; the request ones must win.
		Preferences: models.Preferences{Categories: []string{"databases"}},
	}}
	courses.courses = []models.Course{
		{ID: "c1", Category: "frontend", Difficulty: "beginner"},
		{ID: "c2", Category: "databases", Difficulty: "beginner"},
	}

	recs, err := svc.GetPersonalizedRecommendations(context.Background(), "u1",
		&models.Preferences{Categories: []string{"frontend"}, Difficulty: "beginner"}, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) == 0 || recs[0].ID != "c1" {
		t.Errorf("Expected explicit preferences to drive the result, got %+v", recs)
	}
}

func TestPersonalizedEmptyExplicitPreferencesUseStored(t *testing.T) {
	svc, users, _, courses, _ := newRecommendationFixture()
	users.users = []models.User{{
		ID:          "u1",
		Preferences: models.Preferences{Categories: []string{"databases"}},
	}}
	courses.courses = []models.Course{
		{ID: "c1", Category: "frontend", Difficulty: "beginner"},
		{ID: "c2", Category: "databases", Difficulty: "beginner"},
	}

	// A bare {} request body binds to a zero-value preferences object; it
	// must not shadow the stored preferences.
	recs, err := svc.GetPersonalizedRecommendations(context.Background(), "u1", &models.Preferences{}, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) == 0 || recs[0].ID != "c2" {
		t.Errorf("Expected stored preferences to drive the result, got %+v", recs)
	}
}

func TestPersonalizedPopularFallback(t *testing.T) {
	svc, users, _, courses, _ := newRecommendationFixture()
	// No preferences, no course history: plain popularity ranking.
	users.users = []models.User{{ID: "u1"}}
	courses.courses = []models.Course{
		{ID: "c1", EnrollmentCount: 5},
		{ID: "c2", EnrollmentCount: 50},
	}

	recs, err := svc.GetPersonalizedRecommendations(context.Background(), "u1", nil, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "c2" {
		t.Errorf("Expected popularity order [c2 c1], got %+v", recs)
	}
}

func TestPreferenceRelaxation(t *testing.T) {
	svc, users, _, courses, _ := newRecommendationFixture()
	users.users = []models.User{{ID: "u1"}}
	// Only one course matches the full filter; relaxation must pull in the
	// category-only match, then popularity fills the rest.
	courses.courses = []models.Course{
		{ID: "c1", Category: "programming", Difficulty: "beginner", Content: models.CourseContent{Tags: []string{"go"}}},
		{ID: "c2", Category: "programming", Difficulty: "advanced"},
		{ID: "c3", Category: "art", EnrollmentCount: 99},
	}

	user, _ := users.FindByID(context.Background(), "u1")
	prefs := models.Preferences{Categories: []string{"programming"}, Skills: []string{"go"}}
	recs, err := svc.preferenceBasedCourses(context.Background(), user, prefs, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []string{"c1", "c2", "c3"}
	if len(recs) != len(want) {
		t.Fatalf("Expected %v, got %+v", want, recs)
	}
	for i, id := range want {
		if recs[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, recs[i].ID)
		}
	}
}

func TestPreferenceDefaultDifficulty(t *testing.T) {
	svc, users, _, courses, _ := newRecommendationFixture()
	users.users = []models.User{{ID: "u1"}}
	courses.courses = []models.Course{
		{ID: "c1", Category: "programming", Difficulty: "advanced"},
		{ID: "c2", Category: "programming", Difficulty: "beginner"},
	}

	user, _ := users.FindByID(context.Background(), "u1")
	recs, err := svc.preferenceBasedCourses(context.Background(), user, models.Preferences{Categories: []string{"programming"}}, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "c2" {
		t.Errorf("Expected unset difficulty to default to beginner, got %+v", recs)
	}
}

func TestPreferenceExcludesTakenCourses(t *testing.T) {
	svc, users, _, courses, _ := newRecommendationFixture()
	users.users = []models.User{{
		ID:       "u1",
		Progress: models.Progress{CompletedCourses: []string{"c1"}},
	}}
	courses.courses = []models.Course{
		{ID: "c1", Category: "programming", Difficulty: "beginner"},
		{ID: "c2", Category: "programming", Difficulty: "beginner"},
	}

	user, _ := users.FindByID(context.Background(), "u1")
	recs, err := svc.preferenceBasedCourses(context.Background(), user, models.Preferences{Categories: []string{"programming"}}, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "c2" {
		t.Errorf("Expected taken course filtered out with surplus fetch, got %+v", recs)
	}
}

func TestSimilarCoursesCategoryThenTags(t *testing.T) {
	svc, _, _, courses, _ := newRecommendationFixture()
	courses.courses = []models.Course{
		{ID: "c1", Category: "programming", Content: models.CourseContent{Tags: []string{"go"}}},
		{ID: "c2", Category: "programming"},
		{ID: "c3", Category: "devops", Content: models.CourseContent{Tags: []string{"go"}}},
		{ID: "c4", Category: "art"},
	}

	recs, err := svc.GetSimilarCourses(context.Background(), "c1", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected [c2 c3], got %+v", recs)
	}
	if recs[0].ID != "c2" || recs[1].ID != "c3" {
		t.Errorf("Expected category match before tag match, got [%s %s]", recs[0].ID, recs[1].ID)
	}
	for _, rec := range recs {
		if rec.ID == "c1" {
			t.Error("Expected the course itself to be excluded")
		}
	}
}

func TestSimilarCoursesUnknownCourse(t *testing.T) {
	svc, _, _, _, _ := newRecommendationFixture()
	recs, err := svc.GetSimilarCourses(context.Background(), "missing", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", recs)
	}
}
