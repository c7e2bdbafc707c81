package models

import "time"

// ConceptLink associates concept names with external resources that teach them.
type ConceptLink struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Concepts    []string  `bson:"concepts" json:"concepts"`
	Links       []string  `bson:"links" json:"links"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Advice is one resolved recommendation for a knowledge gap. The resolver
// emits exactly one Advice per requested gap, placeholder or not.
type Advice struct {
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	Links       []string `bson:"links" json:"links"`
	Concepts    []string `bson:"concepts" json:"concepts"`
}
