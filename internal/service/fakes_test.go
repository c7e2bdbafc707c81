package service

import (
	"context"
	"strings"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory stores backing the service tests. Slices keep insertion order so
// ordering-sensitive assertions stay deterministic.

type fakeQuestionStore struct {
	questions []models.Question
}

func (f *fakeQuestionStore) Create(_ context.Context, q *models.Question) error {
	if q.ID == "" {
		q.ID = "q" + time.Now().Format("150405.000")
	}
	f.questions = append(f.questions, *q)
	return nil
}

func (f *fakeQuestionStore) FindByID(_ context.Context, id string) (*models.Question, error) {
	for i := range f.questions {
		if f.questions[i].ID == id {
			q := f.questions[i]
			return &q, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeQuestionStore) FindByIDs(_ context.Context, ids []string) ([]models.Question, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.Question
	for _, q := range f.questions {
		if _, ok := want[q.ID]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) FindByTags(_ context.Context, tags []string, limit, _ int64) ([]models.Question, error) {
	var out []models.Question
	for _, q := range f.questions {
		if hasAnyTag(q.Tags, tags) {
			out = append(out, q)
			if int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) FindByAssessmentID(_ context.Context, assessmentID string) ([]models.Question, error) {
	var out []models.Question
	for _, q := range f.questions {
		for _, aid := range q.AssessmentIDs {
			if aid == assessmentID {
				out = append(out, q)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) FindAll(_ context.Context, limit, _ int64) ([]models.Question, error) {
	out := f.questions
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeQuestionStore) Update(_ context.Context, id string, update bson.M) error {
	for i := range f.questions {
		if f.questions[i].ID != id {
			continue
		}
		if text, ok := update["text"].(string); ok {
			f.questions[i].Text = text
		}
		if answer, ok := update["correct_answer"].(string); ok {
			f.questions[i].CorrectAnswer = answer
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (f *fakeQuestionStore) Delete(_ context.Context, id string) error {
	for i := range f.questions {
		if f.questions[i].ID == id {
			f.questions = append(f.questions[:i], f.questions[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeQuestionStore) AddAssessmentID(_ context.Context, questionID, assessmentID string) error {
	for i := range f.questions {
		if f.questions[i].ID == questionID {
			f.questions[i].AssessmentIDs = append(f.questions[i].AssessmentIDs, assessmentID)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeQuestionStore) RemoveAssessmentID(_ context.Context, questionID, assessmentID string) error {
	for i := range f.questions {
		if f.questions[i].ID != questionID {
			continue
		}
		ids := f.questions[i].AssessmentIDs[:0]
		for _, aid := range f.questions[i].AssessmentIDs {
			if aid != assessmentID {
				ids = append(ids, aid)
			}
		}
		f.questions[i].AssessmentIDs = ids
		return nil
	}
	return mongo.ErrNoDocuments
}

func (f *fakeQuestionStore) DetachAssessment(_ context.Context, assessmentID string) error {
	for i := range f.questions {
		ids := f.questions[i].AssessmentIDs[:0]
		for _, aid := range f.questions[i].AssessmentIDs {
			if aid != assessmentID {
				ids = append(ids, aid)
			}
		}
		f.questions[i].AssessmentIDs = ids
	}
	return nil
}

type fakeAssessmentStore struct {
	assessments []models.Assessment
}

func (f *fakeAssessmentStore) Create(_ context.Context, a *models.Assessment) error {
	if a.ID == "" {
		a.ID = "a" + time.Now().Format("150405.000")
	}
	f.assessments = append(f.assessments, *a)
	return nil
}

func (f *fakeAssessmentStore) FindByID(_ context.Context, id string) (*models.Assessment, error) {
	for i := range f.assessments {
		if f.assessments[i].ID == id {
			a := f.assessments[i]
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAssessmentStore) FindByCourseID(_ context.Context, courseID string) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, a := range f.assessments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssessmentStore) Update(_ context.Context, id string, _ bson.M) error {
	for i := range f.assessments {
		if f.assessments[i].ID == id {
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeAssessmentStore) Delete(_ context.Context, id string) error {
	for i := range f.assessments {
		if f.assessments[i].ID == id {
			f.assessments = append(f.assessments[:i], f.assessments[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type fakeResultStore struct {
	results            []models.AssessmentResult
	propagated         map[string]bson.M
	deletedAssessments []string
}

func (f *fakeResultStore) Create(_ context.Context, r *models.AssessmentResult) error {
	if r.ID == "" {
		r.ID = "r" + time.Now().Format("150405.000000")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	f.results = append(f.results, *r)
	return nil
}

func (f *fakeResultStore) FindByUser(_ context.Context, userID string, limit, _ int64) ([]models.AssessmentResult, error) {
	var out []models.AssessmentResult
	for _, r := range f.results {
		if r.UserID == userID {
			out = append(out, r)
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeResultStore) FindByAssessment(_ context.Context, assessmentID string, limit, _ int64) ([]models.AssessmentResult, error) {
	var out []models.AssessmentResult
	for _, r := range f.results {
		if r.AssessmentID == assessmentID {
			out = append(out, r)
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeResultStore) FindLatestByUserAndAssessment(_ context.Context, userID, assessmentID string) (*models.AssessmentResult, error) {
	var latest *models.AssessmentResult
	for i := range f.results {
		r := f.results[i]
		if r.UserID != userID || r.AssessmentID != assessmentID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = &f.results[i]
		}
	}
	if latest == nil {
		return nil, mongo.ErrNoDocuments
	}
	out := *latest
	return &out, nil
}

func (f *fakeResultStore) FindLatestByUserAndAssessmentIDs(ctx context.Context, userID string, assessmentIDs []string) (*models.AssessmentResult, error) {
	var latest *models.AssessmentResult
	for _, aid := range assessmentIDs {
		r, err := f.FindLatestByUserAndAssessment(ctx, userID, aid)
		if err != nil {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, mongo.ErrNoDocuments
	}
	return latest, nil
}

func (f *fakeResultStore) AverageScore(_ context.Context, assessmentID string) (float64, error) {
	sum, n := 0.0, 0
	for _, r := range f.results {
		if r.AssessmentID == assessmentID {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0, mongo.ErrNoDocuments
	}
	return sum / float64(n), nil
}

func (f *fakeResultStore) UpdateEmbeddedQuestion(_ context.Context, questionID string, fields bson.M) error {
	if f.propagated == nil {
		f.propagated = make(map[string]bson.M)
	}
	f.propagated[questionID] = fields
	for i := range f.results {
		for j := range f.results[i].Questions {
			if f.results[i].Questions[j].ID != questionID {
				continue
			}
			if text, ok := fields["text"].(string); ok {
				f.results[i].Questions[j].Text = text
			}
		}
	}
	return nil
}

func (f *fakeResultStore) DeleteByAssessment(_ context.Context, assessmentID string) error {
	f.deletedAssessments = append(f.deletedAssessments, assessmentID)
	kept := f.results[:0]
	for _, r := range f.results {
		if r.AssessmentID != assessmentID {
			kept = append(kept, r)
		}
	}
	f.results = kept
	return nil
}

type fakeUserStore struct {
	users []models.User
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserStore) FindWithCourse(_ context.Context, courseID, excludeUserID string, limit int64) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.ID == excludeUserID {
			continue
		}
		if !containsString(u.TakenCourses(), courseID) {
			continue
		}
		out = append(out, u)
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeUserStore) SetCooldown(_ context.Context, userID string, cooldown *models.Cooldown) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Cooldown = cooldown
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeUserStore) UpdateProgress(_ context.Context, userID string, progress models.Progress) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Progress = progress
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeUserStore) UpdatePreferences(_ context.Context, userID string, fields bson.M) error {
	for i := range f.users {
		if f.users[i].ID != userID {
			continue
		}
		if cats, ok := fields["categories"].([]string); ok {
			f.users[i].Preferences.Categories = cats
		}
		if diff, ok := fields["difficulty"].(string); ok {
			f.users[i].Preferences.Difficulty = diff
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

type fakeCourseStore struct {
	courses []models.Course
}

func (f *fakeCourseStore) FindByID(_ context.Context, id string) (*models.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == id {
			c := f.courses[i]
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCourseStore) FindByCategory(_ context.Context, category string, limit int64) ([]models.Course, error) {
	var out []models.Course
	for _, c := range f.courses {
		if c.Category == category {
			out = append(out, c)
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCourseStore) FindByTagIntersection(_ context.Context, tags []string, limit int64) ([]models.Course, error) {
	var out []models.Course
	for _, c := range f.courses {
		if hasAnyTag(c.Content.Tags, tags) {
			out = append(out, c)
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCourseStore) FindByPreferences(_ context.Context, categories, skills []string, difficulty string, limit int64) ([]models.Course, error) {
	var out []models.Course
	for _, c := range f.courses {
		if len(categories) > 0 && !containsString(categories, c.Category) {
			continue
		}
		if len(skills) > 0 && !hasAnyTag(c.Content.Tags, skills) {
			continue
		}
		if difficulty != "" && c.Difficulty != difficulty {
			continue
		}
		out = append(out, c)
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCourseStore) FindPopular(_ context.Context, limit int64) ([]models.Course, error) {
	out := make([]models.Course, len(f.courses))
	copy(out, f.courses)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].EnrollmentCount > out[j-1].EnrollmentCount; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCourseStore) IncrementEnrollment(_ context.Context, id string) error {
	for i := range f.courses {
		if f.courses[i].ID == id {
			f.courses[i].EnrollmentCount++
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeCourseStore) IncrementCompletion(_ context.Context, id string) error {
	for i := range f.courses {
		if f.courses[i].ID == id {
			f.courses[i].CompletionCount++
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type fakePathStore struct {
	paths []models.LearningPath
}

func (f *fakePathStore) FindBySkill(_ context.Context, skill string, limit int64) ([]models.LearningPath, error) {
	var out []models.LearningPath
	for _, p := range f.paths {
		if containsString(p.TargetSkills, skill) {
			out = append(out, p)
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakePathStore) FindNextLevelBySkill(_ context.Context, skill string, limit int64) ([]models.LearningPath, error) {
	var out []models.LearningPath
	for _, p := range f.paths {
		if !containsString(p.Prerequisites.Skills, skill) {
			continue
		}
		if containsString(p.TargetSkills, skill) {
			continue
		}
		out = append(out, p)
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePathStore) FindPopular(_ context.Context, limit int64) ([]models.LearningPath, error) {
	out := f.paths
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeHistoryStore struct {
	histories map[string]*models.CooldownHistory
}

func (f *fakeHistoryStore) FindByUser(_ context.Context, userID string) (*models.CooldownHistory, error) {
	if h, ok := f.histories[userID]; ok {
		return h, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeHistoryStore) AppendEpisode(_ context.Context, userID string, episode models.CooldownEpisode) error {
	if f.histories == nil {
		f.histories = make(map[string]*models.CooldownHistory)
	}
	h, ok := f.histories[userID]
	if !ok {
		h = &models.CooldownHistory{ID: "h-" + userID, UserID: userID}
		f.histories[userID] = h
	}
	h.Episodes = append(h.Episodes, episode)
	return nil
}

func (f *fakeHistoryStore) Delete(_ context.Context, id string) error {
	for userID, h := range f.histories {
		if h.ID == id {
			delete(f.histories, userID)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type fakeConceptLinkStore struct {
	links []models.ConceptLink
}

func (f *fakeConceptLinkStore) Create(_ context.Context, link *models.ConceptLink) error {
	if link.ID == "" {
		link.ID = "l" + time.Now().Format("150405.000")
	}
	f.links = append(f.links, *link)
	return nil
}

func (f *fakeConceptLinkStore) FindByID(_ context.Context, id string) (*models.ConceptLink, error) {
	for i := range f.links {
		if f.links[i].ID == id {
			l := f.links[i]
			return &l, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeConceptLinkStore) FindAll(_ context.Context, limit, _ int64) ([]models.ConceptLink, error) {
	out := f.links
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeConceptLinkStore) Update(_ context.Context, id string, update bson.M) error {
	for i := range f.links {
		if f.links[i].ID != id {
			continue
		}
		if desc, ok := update["description"].(string); ok {
			f.links[i].Description = desc
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (f *fakeConceptLinkStore) Delete(_ context.Context, id string) error {
	for i := range f.links {
		if f.links[i].ID == id {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeConceptLinkStore) SearchFirst(_ context.Context, query string) (*models.ConceptLink, error) {
	for i := range f.links {
		for _, concept := range f.links[i].Concepts {
			if strings.Contains(strings.ToLower(concept), strings.ToLower(query)) {
				l := f.links[i]
				return &l, nil
			}
		}
	}
	return nil, mongo.ErrNoDocuments
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		if containsString(have, w) {
			return true
		}
	}
	return false
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
