package models

import "time"

type Progress struct {
	CompletedCourses []string `bson:"completed_courses" json:"completed_courses"`
	// At most one course is in progress at a time.
	InProgressCourse string `bson:"in_progress_course" json:"in_progress_course"`
}

type Preferences struct {
	Categories     []string `bson:"categories" json:"categories"`
	Skills         []string `bson:"skills" json:"skills"`
	Difficulty     string   `bson:"difficulty" json:"difficulty"`
	LearningStyle  string   `bson:"learning_style" json:"learning_style"`
	TimeCommitment string   `bson:"time_commitment" json:"time_commitment"`
	Goals          []string `bson:"goals" json:"goals"`
}

// Cooldown is the live retake restriction on a user. It is checked lazily:
// readers compare ExpiresAt against the clock and unset the field once past.
type Cooldown struct {
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CourseID  string    `bson:"course_id" json:"course_id"`
	Concepts  []string  `bson:"concepts" json:"concepts"`
}

type User struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	Email       string      `bson:"email" json:"email"`
	Username    string      `bson:"username" json:"username"`
	Role        string      `bson:"role" json:"role"`
	Progress    Progress    `bson:"progress" json:"progress"`
	Preferences Preferences `bson:"preferences" json:"preferences"`
	Cooldown    *Cooldown   `bson:"cooldown,omitempty" json:"cooldown,omitempty"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// TakenCourses returns completed courses plus the in-progress course, if any.
func (u *User) TakenCourses() []string {
	taken := make([]string, 0, len(u.Progress.CompletedCourses)+1)
	taken = append(taken, u.Progress.CompletedCourses...)
	if u.Progress.InProgressCourse != "" {
		taken = append(taken, u.Progress.InProgressCourse)
	}
	return taken
}
