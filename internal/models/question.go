package models

import "time"

// Question is the unit of knowledge-gap attribution: its tags name the
// concepts a correct or incorrect answer demonstrates.
type Question struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Text          string    `bson:"text" json:"text"`
	Options       []string  `bson:"options" json:"options"`
	CorrectAnswer string    `bson:"correct_answer" json:"correct_answer"`
	Tags          []string  `bson:"tags" json:"tags"`
	AssessmentIDs []string  `bson:"assessment_ids" json:"assessment_ids"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
