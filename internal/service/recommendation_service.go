package service

import (
	"context"
	"errors"
	"sort"

	"learning-service/internal/models"
	"learning-service/internal/ranking"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultCourseRecLimit = 5
	defaultPathRecLimit   = 3
	defaultPersonalLimit  = 4
	defaultSimilarLimit   = 3

	coursesPerGap      = 2
	coursesPerCategory = 3
	pathsPerSkill      = 2
	usersPerCourse     = 20
	maxSimilarUsers    = 10
	resultFetchLimit   = 20
)

// RecommendationService blends knowledge-gap, collaborative and content-based
// strategies into ranked course lists, and runs the analogous flows for
// learning paths and preference-driven recommendations. All methods are
// read-only and degrade to empty lists when there is not enough data.
type RecommendationService struct {
	Users   UserStore
	Results ResultStore
	Courses CourseStore
	Paths   LearningPathStore
}

func NewRecommendationService(users UserStore, results ResultStore, courses CourseStore, paths LearningPathStore) *RecommendationService {
	return &RecommendationService{Users: users, Results: results, Courses: courses, Paths: paths}
}

// GetCourseRecommendations runs the three strategies and merges their
// candidates by source rank. Users without assessment history get an empty
// list: the gap-driven tier anchors the whole ranking, so recommendations
// require at least one attempt.
func (s *RecommendationService) GetCourseRecommendations(ctx context.Context, userID string, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = defaultCourseRecLimit
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.Course{}, nil
		}
		return nil, err
	}

	results, err := s.Results.FindByUser(ctx, userID, resultFetchLimit, 0)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []models.Course{}, nil
	}

	gaps := newTagSet()
	for _, result := range results {
		if !result.Passed {
			gaps.add(result.KnowledgeGaps...)
		}
	}

	gapRecs, err := s.gapDrivenCourses(ctx, gaps.values(), limit)
	if err != nil {
		return nil, err
	}
	collabRecs, err := s.collaborativeCourses(ctx, user, limit)
	if err != nil {
		return nil, err
	}
	contentRecs, err := s.contentBasedCourses(ctx, user, limit)
	if err != nil {
		return nil, err
	}

	merger := ranking.NewMerger[models.Course]()
	merger.AddAll(gapRecs, ranking.SourceGapDriven, courseKey)
	merger.AddAll(collabRecs, ranking.SourceCollaborative, courseKey)
	merger.AddAll(contentRecs, ranking.SourceContentBased, courseKey)

	taken := stringSet(user.TakenCourses())
	recommended := make([]models.Course, 0, limit)
	for _, course := range merger.Ranked() {
		if _, ok := taken[course.ID]; ok {
			continue
		}
		recommended = append(recommended, course)
		if len(recommended) == limit {
			break
		}
	}
	return recommended, nil
}

// gapDrivenCourses finds up to coursesPerGap courses per distinct gap,
// stopping early once the overall limit is covered.
func (s *RecommendationService) gapDrivenCourses(ctx context.Context, gaps []string, limit int) ([]models.Course, error) {
	if len(gaps) == 0 {
		return nil, nil
	}
	var recs []models.Course
	for _, gap := range gaps {
		matching, err := s.Courses.FindByTagIntersection(ctx, []string{gap}, coursesPerGap)
		if err != nil {
			return nil, err
		}
		recs = append(recs, matching...)
		if len(recs) >= limit {
			break
		}
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// collaborativeCourses finds users overlapping the current user's course set,
// ranks them by overlap count, and collects their courses the current user
// has not taken.
func (s *RecommendationService) collaborativeCourses(ctx context.Context, user *models.User, limit int) ([]models.Course, error) {
	own := user.TakenCourses()
	if len(own) == 0 {
		return nil, nil
	}
	ownSet := stringSet(own)

	overlap := make(map[string]int)
	similar := make(map[string]models.User)
	var order []string
	for _, courseID := range own {
		users, err := s.Users.FindWithCourse(ctx, courseID, user.ID, usersPerCourse)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if _, ok := overlap[u.ID]; !ok {
				order = append(order, u.ID)
				similar[u.ID] = u
			}
			overlap[u.ID]++
		}
	}
	if len(order) == 0 {
		return nil, nil
	}

	// Most shared courses first; first-seen order breaks ties.
	sort.SliceStable(order, func(i, j int) bool {
		return overlap[order[i]] > overlap[order[j]]
	})
	if len(order) > maxSimilarUsers {
		order = order[:maxSimilarUsers]
	}

	candidateSet := make(map[string]struct{})
	var candidates []string
	for _, similarID := range order {
		similarUser := similar[similarID]
		for _, courseID := range similarUser.TakenCourses() {
			if _, ok := ownSet[courseID]; ok {
				continue
			}
			if _, ok := candidateSet[courseID]; ok {
				continue
			}
			candidateSet[courseID] = struct{}{}
			candidates = append(candidates, courseID)
			if len(candidates) >= limit {
				break
			}
		}
		if len(candidates) >= limit {
			break
		}
	}

	recs := make([]models.Course, 0, len(candidates))
	for _, courseID := range candidates {
		course, err := s.Courses.FindByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}
		recs = append(recs, *course)
	}
	return recs, nil
}

// contentBasedCourses recommends unseen courses from the categories the user
// already studies, padding with popular courses when categories run dry.
func (s *RecommendationService) contentBasedCourses(ctx context.Context, user *models.User, limit int) ([]models.Course, error) {
	own := user.TakenCourses()
	if len(own) == 0 {
		return nil, nil
	}
	ownSet := stringSet(own)

	categorySeen := make(map[string]struct{})
	var categories []string
	for _, courseID := range own {
		course, err := s.Courses.FindByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}
		if course.Category == "" {
			continue
		}
		if _, ok := categorySeen[course.Category]; ok {
			continue
		}
		categorySeen[course.Category] = struct{}{}
		categories = append(categories, course.Category)
	}

	recSeen := make(map[string]struct{})
	var recs []models.Course
	addUnseen := func(courses []models.Course) {
		for _, course := range courses {
			if _, ok := ownSet[course.ID]; ok {
				continue
			}
			if _, ok := recSeen[course.ID]; ok {
				continue
			}
			recSeen[course.ID] = struct{}{}
			recs = append(recs, course)
		}
	}

	for _, category := range categories {
		inCategory, err := s.Courses.FindByCategory(ctx, category, coursesPerCategory)
		if err != nil {
			return nil, err
		}
		addUnseen(inCategory)
		if len(recs) >= limit {
			break
		}
	}

	if len(recs) < limit {
		popular, err := s.Courses.FindPopular(ctx, int64(limit))
		if err != nil {
			return nil, err
		}
		addUnseen(popular)
	}

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// GetLearningPathRecommendations ranks paths in three tiers: paths teaching a
// current knowledge gap, next-level paths building on a demonstrated
// strength, then paths matching stated career goals, padded with popular
// paths. Gaps and strengths are recomputed from the question snapshots stored
// on each result, so they reflect the questions as actually answered.
func (s *RecommendationService) GetLearningPathRecommendations(ctx context.Context, userID string, limit int) ([]models.LearningPath, error) {
	if limit <= 0 {
		limit = defaultPathRecLimit
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.LearningPath{}, nil
		}
		return nil, err
	}

	results, err := s.Results.FindByUser(ctx, userID, resultFetchLimit, 0)
	if err != nil {
		return nil, err
	}

	gaps := newTagSet()
	strengths := newTagSet()
	for _, result := range results {
		for i, question := range result.Questions {
			answered := i < len(result.Answers) && result.Answers[i] == question.CorrectAnswer
			if answered {
				strengths.add(question.Tags...)
			} else {
				gaps.add(question.Tags...)
			}
		}
	}

	seen := make(map[string]struct{})
	var recs []models.LearningPath
	addUnseen := func(paths []models.LearningPath) {
		for _, path := range paths {
			if _, ok := seen[path.ID]; ok {
				continue
			}
			seen[path.ID] = struct{}{}
			recs = append(recs, path)
			if len(recs) >= limit {
				return
			}
		}
	}

	for _, gap := range gaps.values() {
		paths, err := s.Paths.FindBySkill(ctx, gap, pathsPerSkill)
		if err != nil {
			return nil, err
		}
		addUnseen(paths)
		if len(recs) >= limit {
			break
		}
	}

	if len(recs) < limit {
		for _, strength := range strengths.values() {
			paths, err := s.Paths.FindNextLevelBySkill(ctx, strength, pathsPerSkill)
			if err != nil {
				return nil, err
			}
			addUnseen(paths)
			if len(recs) >= limit {
				break
			}
		}
	}

	if len(recs) < limit {
		for _, goal := range user.Preferences.Goals {
			paths, err := s.Paths.FindBySkill(ctx, goal, pathsPerSkill)
			if err != nil {
				return nil, err
			}
			addUnseen(paths)
			if len(recs) >= limit {
				break
			}
		}
	}

	if len(recs) < limit {
		popular, err := s.Paths.FindPopular(ctx, int64(limit))
		if err != nil {
			return nil, err
		}
		addUnseen(popular)
	}

	if recs == nil {
		recs = []models.LearningPath{}
	}
	return recs, nil
}

// GetPersonalizedRecommendations prefers explicit request preferences, then
// the user's stored preferences, then course history, and finally plain
// popular courses for users with nothing to go on.
func (s *RecommendationService) GetPersonalizedRecommendations(ctx context.Context, userID string, prefs *models.Preferences, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = defaultPersonalLimit
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.Course{}, nil
		}
		return nil, err
	}

	// An explicit but empty preferences object (no categories, skills or
	// difficulty) counts as none supplied.
	if prefs != nil && len(prefs.Categories) == 0 && len(prefs.Skills) == 0 && prefs.Difficulty == "" {
		prefs = nil
	}
	if prefs != nil {
		return s.preferenceBasedCourses(ctx, user, *prefs, limit)
	}

	stored := user.Preferences
	if len(stored.Categories) > 0 || len(stored.Skills) > 0 {
		return s.preferenceBasedCourses(ctx, user, stored, limit)
	}

	if len(user.TakenCourses()) == 0 {
		popular, err := s.Courses.FindPopular(ctx, int64(limit))
		if err != nil {
			return nil, err
		}
		return popular, nil
	}

	return s.GetCourseRecommendations(ctx, userID, limit)
}

// preferenceBasedCourses runs the filter-relaxation search: the combined
// category+skill+difficulty filter first, then category only, then popular
// courses. Query limits are inflated by the user's own course count so the
// already-taken filter leaves enough surplus.
func (s *RecommendationService) preferenceBasedCourses(ctx context.Context, user *models.User, prefs models.Preferences, limit int) ([]models.Course, error) {
	own := user.TakenCourses()
	ownSet := stringSet(own)
	surplus := int64(limit + len(own))

	difficulty := prefs.Difficulty
	if difficulty == "" {
		difficulty = "beginner"
	}

	seen := make(map[string]struct{})
	var recs []models.Course
	addUnseen := func(courses []models.Course) {
		for _, course := range courses {
			if _, ok := ownSet[course.ID]; ok {
				continue
			}
			if _, ok := seen[course.ID]; ok {
				continue
			}
			seen[course.ID] = struct{}{}
			recs = append(recs, course)
			if len(recs) >= limit {
				return
			}
		}
	}

	matched, err := s.Courses.FindByPreferences(ctx, prefs.Categories, prefs.Skills, difficulty, surplus)
	if err != nil {
		return nil, err
	}
	addUnseen(matched)

	if len(recs) < limit && len(prefs.Categories) > 0 {
		relaxed, err := s.Courses.FindByPreferences(ctx, prefs.Categories, nil, "", surplus)
		if err != nil {
			return nil, err
		}
		addUnseen(relaxed)
	}

	if len(recs) < limit {
		popular, err := s.Courses.FindPopular(ctx, surplus)
		if err != nil {
			return nil, err
		}
		addUnseen(popular)
	}

	if recs == nil {
		recs = []models.Course{}
	}
	return recs, nil
}

// GetSimilarCourses lists courses sharing the given course's category, padded
// by tag overlap.
func (s *RecommendationService) GetSimilarCourses(ctx context.Context, courseID string, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = defaultSimilarLimit
	}

	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.Course{}, nil
		}
		return nil, err
	}

	seen := map[string]struct{}{courseID: {}}
	var similar []models.Course
	addUnseen := func(courses []models.Course) {
		for _, c := range courses {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			similar = append(similar, c)
			if len(similar) >= limit {
				return
			}
		}
	}

	inCategory, err := s.Courses.FindByCategory(ctx, course.Category, int64(limit+1))
	if err != nil {
		return nil, err
	}
	addUnseen(inCategory)

	if len(similar) < limit && len(course.Content.Tags) > 0 {
		byTags, err := s.Courses.FindByTagIntersection(ctx, course.Content.Tags, int64(limit+1))
		if err != nil {
			return nil, err
		}
		addUnseen(byTags)
	}

	if similar == nil {
		similar = []models.Course{}
	}
	return similar, nil
}

func courseKey(c models.Course) string { return c.ID }

func stringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
