package models

import "time"

type PathPrerequisites struct {
	Skills []string `bson:"skills" json:"skills"`
}

type LearningPath struct {
	ID            string            `bson:"_id,omitempty" json:"id"`
	Title         string            `bson:"title" json:"title"`
	Description   string            `bson:"description" json:"description"`
	CourseIDs     []string          `bson:"course_ids" json:"course_ids"`
	TargetSkills  []string          `bson:"target_skills" json:"target_skills"`
	Prerequisites PathPrerequisites `bson:"prerequisites" json:"prerequisites"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
}
