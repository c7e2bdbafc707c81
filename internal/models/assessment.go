package models

import "time"

type Assessment struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Title            string    `bson:"title" json:"title"`
	CourseID         string    `bson:"course_id" json:"course_id"`
	QuestionIDs      []string  `bson:"question_ids" json:"question_ids"`
	TimeLimitMinutes int       `bson:"time_limit_minutes" json:"time_limit_minutes"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// AssessmentResult is an immutable snapshot of one attempt. Questions holds
// full denormalized copies of the questions as they were at submission time,
// so editing a question later does not rewrite history.
type AssessmentResult struct {
	ID                    string     `bson:"_id,omitempty" json:"id"`
	UserID                string     `bson:"user_id" json:"user_id"`
	AssessmentID          string     `bson:"assessment_id" json:"assessment_id"`
	CourseID              string     `bson:"course_id" json:"course_id"`
	Answers               []string   `bson:"answers" json:"answers"`
	Questions             []Question `bson:"questions" json:"questions"`
	Score                 float64    `bson:"score" json:"score"`
	Passed                bool       `bson:"passed" json:"passed"`
	KnowledgeGaps         []string   `bson:"knowledge_gaps" json:"knowledge_gaps"`
	DemonstratedStrengths []string   `bson:"demonstrated_strengths" json:"demonstrated_strengths"`
	StartedAt             time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt           time.Time  `bson:"completed_at" json:"completed_at"`
	ElapsedSeconds        int        `bson:"elapsed_seconds" json:"elapsed_seconds"`
	CreatedAt             time.Time  `bson:"created_at" json:"created_at"`
}
