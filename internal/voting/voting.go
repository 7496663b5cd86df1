// Package voting shows a gem's score and records the device user's vote.
package voting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/models"
)

// Backend is the part of the API client the flow needs.
type Backend interface {
	GemVotes(ctx context.Context, gemID string) ([]models.Vote, error)
	CreateVote(ctx context.Context, v models.Vote) error
	UpdateVote(ctx context.Context, v models.Vote) error
}

// Identity yields the current user id or session.ErrNotLoggedIn.
type Identity interface {
	UserID(ctx context.Context) (string, error)
}

// Tally is the aggregate of a gem's votes.
type Tally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	// Mine is the current user's vote: +1, -1 or 0 when there is none.
	Mine int `json:"mine"`
	// Stale is set when the vote was written but the refreshed list could
	// not be fetched.
	Stale bool `json:"stale,omitempty"`
}

// Score is upvotes minus downvotes.
func (t Tally) Score() int {
	return t.Upvotes - t.Downvotes
}

// Count aggregates votes; userID may be empty.
func Count(votes []models.Vote, userID string) Tally {
	var t Tally
	for _, v := range votes {
		if v.Positive {
			t.Upvotes++
		} else {
			t.Downvotes++
		}
		if userID != "" && v.OwnerID == userID {
			t.Mine = direction(v.Positive)
		}
	}
	return t
}

func direction(positive bool) int {
	if positive {
		return 1
	}
	return -1
}

type Service struct {
	backend  Backend
	identity Identity
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(backend Backend, identity Identity, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:  backend,
		identity: identity,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.NewString() },
	}
}

// Tally fetches every vote of the gem and counts them. Mine is filled in
// when the device has a user id.
func (s *Service) Tally(ctx context.Context, gemID string) (Tally, error) {
	votes, err := s.backend.GemVotes(ctx, gemID)
	if err != nil {
		return Tally{}, fmt.Errorf("fetch votes for gem %s: %w", gemID, err)
	}
	userID, _ := s.identity.UserID(ctx)
	return Count(votes, userID), nil
}

// Cast records the user's vote on the gem. An existing vote of the same user
// is updated in place, otherwise a new one is created. The decision is made
// on a freshly fetched list; two devices voting at once can still both create.
func (s *Service) Cast(ctx context.Context, gemID string, positive bool) (Tally, error) {
	userID, err := s.identity.UserID(ctx)
	if err != nil {
		return Tally{}, err
	}

	votes, err := s.backend.GemVotes(ctx, gemID)
	if err != nil {
		return Tally{}, fmt.Errorf("fetch votes for gem %s: %w", gemID, err)
	}

	existing, found := findOwn(votes, userID)
	if found {
		existing.Positive = positive
		existing.GemID = gemID
		if err := s.backend.UpdateVote(ctx, existing); err != nil {
			return Tally{}, fmt.Errorf("update vote %s: %w", existing.ID, err)
		}
	} else {
		existing = models.Vote{
			ID:        s.newID(),
			GemID:     gemID,
			OwnerID:   userID,
			Positive:  positive,
			CreatedAt: s.now(),
		}
		if err := s.backend.CreateVote(ctx, existing); err != nil {
			return Tally{}, fmt.Errorf("create vote: %w", err)
		}
	}
	s.logger.Info("vote submitted",
		zap.String("gem_id", gemID),
		zap.String("user_id", userID),
		zap.Bool("positive", positive),
		zap.Bool("updated", found))

	refreshed, err := s.backend.GemVotes(ctx, gemID)
	if err != nil {
		s.logger.Warn("failed to refresh votes", zap.String("gem_id", gemID), zap.Error(err))
		t := Count(withOwn(votes, existing), userID)
		t.Stale = true
		return t, nil
	}
	return Count(refreshed, userID), nil
}

func findOwn(votes []models.Vote, userID string) (models.Vote, bool) {
	for _, v := range votes {
		if v.OwnerID == userID {
			return v, true
		}
	}
	return models.Vote{}, false
}

// withOwn returns votes with the caller's vote replaced by own, or appended.
func withOwn(votes []models.Vote, own models.Vote) []models.Vote {
	out := make([]models.Vote, 0, len(votes)+1)
	for _, v := range votes {
		if v.OwnerID != own.OwnerID {
			out = append(out, v)
		}
	}
	return append(out, own)
}
