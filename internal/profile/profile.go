// Package profile covers the user profile: the complete-profile gate after
// the first login, editing, and author names on cards.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/session"
)

// IncompleteError lists the profile fields left empty.
type IncompleteError struct {
	Fields []string
}

func (e *IncompleteError) Error() string {
	return "please fill in: " + strings.Join(e.Fields, ", ")
}

type Backend interface {
	Profile(ctx context.Context, userID string) (models.UserProfile, error)
	SaveProfile(ctx context.Context, p models.UserProfile) error
}

type Service struct {
	backend Backend
	session *session.Session
	logger  *zap.Logger
}

func NewService(backend Backend, sess *session.Session, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, session: sess, logger: logger}
}

// Mine fetches the logged-in user's profile.
func (s *Service) Mine(ctx context.Context) (models.UserProfile, error) {
	userID, err := s.loggedInUser(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	p, err := s.backend.Profile(ctx, userID)
	if err != nil {
		return p, fmt.Errorf("fetch profile: %w", err)
	}
	return p, nil
}

// NeedsCompletion reports whether the user still has to create a profile.
// Any failed lookup counts as "no profile yet".
func (s *Service) NeedsCompletion(ctx context.Context) (bool, error) {
	userID, err := s.loggedInUser(ctx)
	if err != nil {
		return false, err
	}
	if _, err := s.backend.Profile(ctx, userID); err != nil {
		if !api.IsNotFound(err) {
			s.logger.Warn("profile lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return true, nil
	}
	return false, nil
}

// Save creates or updates the profile of the logged-in user.
func (s *Service) Save(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	userID, err := s.loggedInUser(ctx)
	if err != nil {
		return p, err
	}
	if missing := p.Missing(); len(missing) > 0 {
		return p, &IncompleteError{Fields: missing}
	}
	p.UserID = userID
	if err := s.backend.SaveProfile(ctx, p); err != nil {
		return p, fmt.Errorf("save profile: %w", err)
	}
	s.logger.Info("profile saved", zap.String("user_id", userID))
	return p, nil
}

// AuthorName resolves an owner id to a display name. Lookup failures fall
// back to the id itself.
func (s *Service) AuthorName(ctx context.Context, ownerID string) string {
	if ownerID == "" {
		return ""
	}
	p, err := s.backend.Profile(ctx, ownerID)
	if err != nil {
		return ownerID
	}
	if p.UserID == "" {
		p.UserID = ownerID
	}
	return p.DisplayName()
}

func (s *Service) loggedInUser(ctx context.Context) (string, error) {
	ok, err := s.session.LoggedIn(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", session.ErrNotLoggedIn
	}
	return s.session.UserID(ctx)
}

// IsIncomplete reports whether err is a missing-fields validation error.
func IsIncomplete(err error) bool {
	var inc *IncompleteError
	return errors.As(err, &inc)
}
