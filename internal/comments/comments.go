// Package comments lists and appends gem comments.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/models"
)

var ErrEmptyComment = errors.New("comment is empty")

type Backend interface {
	GemComments(ctx context.Context, gemID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, c models.Comment) error
}

type Identity interface {
	UserID(ctx context.Context) (string, error)
}

// Thread is the comment list returned after a post. Stale is set when the
// comment was saved but the list could not be refetched; Comments then holds
// only the new comment.
type Thread struct {
	Comments []models.Comment `json:"comments"`
	Stale    bool             `json:"stale,omitempty"`
}

type Service struct {
	backend  Backend
	identity Identity
	logger   *zap.Logger
	now      func() time.Time
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
	}
}

// List returns the gem's comments. On failure the list is empty and the
// error is returned for the caller to show.
func (s *Service) List(ctx context.Context, gemID string) ([]models.Comment, error) {
	list, err := s.backend.GemComments(ctx, gemID)
	if err != nil {
		s.logger.Warn("failed to fetch comments", zap.String("gem_id", gemID), zap.Error(err))
		return []models.Comment{}, fmt.Errorf("fetch comments for gem %s: %w", gemID, err)
	}
	return list, nil
}

// Post appends a comment and returns the refetched list. Blank text and a
// missing user id fail before any request is made. Once the comment is
// saved Post does not fail: a refetch error yields a stale Thread.
func (s *Service) Post(ctx context.Context, gemID, text string) (Thread, error) {
	if strings.TrimSpace(text) == "" {
		return Thread{}, ErrEmptyComment
	}
	userID, err := s.identity.UserID(ctx)
	if err != nil {
		return Thread{}, err
	}

	c := models.Comment{
		ID:        uuid.NewString(),
		GemID:     gemID,
		OwnerID:   userID,
		Comment:   text,
		CreatedAt: s.now(),
	}
	if err := s.backend.CreateComment(ctx, c); err != nil {
		return Thread{}, fmt.Errorf("post comment: %w", err)
	}
	s.logger.Info("comment posted", zap.String("gem_id", gemID), zap.String("user_id", userID))

	list, err := s.List(ctx, gemID)
	if err != nil {
		return Thread{Comments: []models.Comment{c}, Stale: true}, nil
	}
	return Thread{Comments: list}, nil
}
