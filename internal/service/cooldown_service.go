package service

import (
	"context"
	"errors"
	"time"

	"learning-service/internal/config"
	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CooldownService owns the live cooldown field on User and the append-only
// episode log behind it.
type CooldownService struct {
	Users   UserStore
	History CooldownHistoryStore
	cfg     *config.Config
}

func NewCooldownService(users UserStore, history CooldownHistoryStore, cfg *config.Config) *CooldownService {
	return &CooldownService{Users: users, History: history, cfg: cfg}
}

// Refresh performs the lazy expiry check: if the user's live cooldown is past
// its expiry, the field is unset. No background sweep exists; callers that
// care about cooldown state invoke this on read.
func (s *CooldownService) Refresh(ctx context.Context, userID string) error {
	return s.refreshAt(ctx, userID, time.Now().UTC())
}

func (s *CooldownService) refreshAt(ctx context.Context, userID string, now time.Time) error {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return err
	}
	if user.Cooldown == nil {
		return nil
	}
	if user.Cooldown.ExpiresAt.After(now) {
		return nil
	}
	return s.Users.SetCooldown(ctx, userID, nil)
}

// Trigger starts a cooldown: one episode is appended to the user's history
// log and the live field on User is set to the new window.
func (s *CooldownService) Trigger(ctx context.Context, userID, courseID string, gaps []string) error {
	return s.triggerAt(ctx, userID, courseID, gaps, time.Now().UTC())
}

func (s *CooldownService) triggerAt(ctx context.Context, userID, courseID string, gaps []string, now time.Time) error {
	if gaps == nil {
		gaps = []string{}
	}
	expiresAt := now.Add(time.Duration(s.cfg.CooldownHours) * time.Hour)

	episode := models.CooldownEpisode{
		CourseID:  courseID,
		Concepts:  gaps,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.History.AppendEpisode(ctx, userID, episode); err != nil {
		return err
	}
	return s.Users.SetCooldown(ctx, userID, &models.Cooldown{
		ExpiresAt: expiresAt,
		CourseID:  courseID,
		Concepts:  gaps,
	})
}

// Current returns the latest unexpired episode from the log, or nil. This is
// the derived view of the history; it does not consult the field on User.
func (s *CooldownService) Current(ctx context.Context, userID string) (*models.CooldownEpisode, error) {
	history, err := s.History.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return history.Current(time.Now().UTC()), nil
}

func (s *CooldownService) HistoryForUser(ctx context.Context, userID string) (*models.CooldownHistory, error) {
	history, err := s.History.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrHistoryNotFound
		}
		return nil, err
	}
	return history, nil
}

func (s *CooldownService) DeleteHistory(ctx context.Context, id string) error {
	err := s.History.Delete(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrHistoryNotFound
	}
	return err
}
