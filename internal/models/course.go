package models

import "time"

type ContentItem struct {
	ID    string `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	Body  string `bson:"body" json:"body"`
}

type Subsection struct {
	ID    string        `bson:"id" json:"id"`
	Title string        `bson:"title" json:"title"`
	Items []ContentItem `bson:"items" json:"items"`
}

type Section struct {
	ID          string       `bson:"id" json:"id"`
	Title       string       `bson:"title" json:"title"`
	Subsections []Subsection `bson:"subsections" json:"subsections"`
}

// CourseContent nests the course material tree and carries the concept tags
// the recommender matches knowledge gaps against.
type CourseContent struct {
	Tags     []string  `bson:"tags" json:"tags"`
	Sections []Section `bson:"sections" json:"sections"`
}

type Course struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	Title           string        `bson:"title" json:"title"`
	Description     string        `bson:"description" json:"description"`
	Category        string        `bson:"category" json:"category"`
	Difficulty      string        `bson:"difficulty" json:"difficulty"`
	Content         CourseContent `bson:"content" json:"content"`
	EnrollmentCount int           `bson:"enrollment_count" json:"enrollment_count"`
	CompletionCount int           `bson:"completion_count" json:"completion_count"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
