package models

import "time"

// CooldownEpisode is one cooldown occurrence: which course triggered it,
// which concepts were missing, and when it ends.
type CooldownEpisode struct {
	CourseID  string    `bson:"course_id" json:"course_id"`
	Concepts  []string  `bson:"concepts" json:"concepts"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CooldownHistory is the append-only log of a user's cooldown episodes,
// one document per user.
type CooldownHistory struct {
	ID        string            `bson:"_id,omitempty" json:"id"`
	UserID    string            `bson:"user_id" json:"user_id"`
	Episodes  []CooldownEpisode `bson:"episodes" json:"episodes"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Current returns the latest unexpired episode, or nil. This is the derived
// current-or-null view of the log; gating decisions read it instead of
// trusting the denormalized field on User.
func (h *CooldownHistory) Current(now time.Time) *CooldownEpisode {
	if h == nil {
		return nil
	}
	for i := len(h.Episodes) - 1; i >= 0; i-- {
		if h.Episodes[i].ExpiresAt.After(now) {
			return &h.Episodes[i]
		}
	}
	return nil
}
