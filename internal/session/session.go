// Package session reads and writes the login keys kept in device storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/storage"
)

var (
	// ErrNotLoggedIn is returned before any request is sent when an action
	// needs a user id and the device has none.
	ErrNotLoggedIn = errors.New("you must be logged in")
	// ErrSessionExpired means the backend rejected the stored token as expired.
	ErrSessionExpired = errors.New("your session has expired, please log in again")
	ErrNoPendingEmail = errors.New("no email is waiting for verification")
)

// Session binds the backend client to one device's storage.
type Session struct {
	client *api.Client
	store  storage.Storage
	logger *zap.Logger
}

func New(client *api.Client, store storage.Storage, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{client: client, store: store, logger: logger}
}

// State is a snapshot of the stored keys.
type State struct {
	LoggedIn     bool   `json:"loggedIn"`
	UserID       string `json:"userId,omitempty"`
	PendingEmail string `json:"pendingVerificationEmail,omitempty"`
	TokenExpired bool   `json:"tokenExpired,omitempty"`
}

func (s *Session) State(ctx context.Context) (State, error) {
	var st State
	flag, _, err := s.store.GetItem(ctx, storage.KeyIsLoggedIn)
	if err != nil {
		return st, err
	}
	token, hasToken, err := s.store.GetItem(ctx, storage.KeyAccessToken)
	if err != nil {
		return st, err
	}
	userID, hasUser, err := s.store.GetItem(ctx, storage.KeyUserID)
	if err != nil {
		return st, err
	}
	st.PendingEmail, _, err = s.store.GetItem(ctx, storage.KeyPendingVerificationEmail)
	if err != nil {
		return st, err
	}
	st.LoggedIn = flag == "true" && hasToken && hasUser
	if hasUser {
		st.UserID = userID
	}
	if hasToken {
		st.TokenExpired = TokenExpired(token, time.Now())
	}
	return st, nil
}

// LoggedIn requires the flag, a token and a user id, as the create and
// profile pages do.
func (s *Session) LoggedIn(ctx context.Context) (bool, error) {
	st, err := s.State(ctx)
	return st.LoggedIn, err
}

// UserID returns the stored user id or ErrNotLoggedIn. Voting and commenting
// only look at this key.
func (s *Session) UserID(ctx context.Context) (string, error) {
	id, ok, err := s.store.GetItem(ctx, storage.KeyUserID)
	if err != nil {
		return "", fmt.Errorf("read user id: %w", err)
	}
	if !ok || id == "" {
		return "", ErrNotLoggedIn
	}
	return id, nil
}

// Client returns the backend client, authorized with the stored token if any.
func (s *Session) Client(ctx context.Context) *api.Client {
	token, ok, err := s.store.GetItem(ctx, storage.KeyAccessToken)
	if err != nil || !ok {
		return s.client
	}
	return s.client.Authorized(token)
}

// Login stores the token, user id and logged-in flag.
func (s *Session) Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	resp, err := s.client.Login(ctx, creds)
	if err != nil {
		return resp, err
	}
	if resp.AccessToken != "" {
		if err := s.store.SetItem(ctx, storage.KeyAccessToken, resp.AccessToken); err != nil {
			return resp, err
		}
		if err := s.store.SetItem(ctx, storage.KeyUserID, resp.User.ID); err != nil {
			return resp, err
		}
	}
	if err := s.store.SetItem(ctx, storage.KeyIsLoggedIn, "true"); err != nil {
		return resp, err
	}
	s.logger.Info("logged in", zap.String("user_id", resp.User.ID))
	return resp, nil
}

// Register creates the account and remembers the email until it is verified.
func (s *Session) Register(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	resp, err := s.client.Register(ctx, creds)
	if err != nil {
		return resp, err
	}
	if resp.AccessToken != "" {
		if err := s.store.SetItem(ctx, storage.KeyAccessToken, resp.AccessToken); err != nil {
			return resp, err
		}
		if resp.User.ID != "" {
			if err := s.store.SetItem(ctx, storage.KeyUserID, resp.User.ID); err != nil {
				return resp, err
			}
		}
	}
	if err := s.store.SetItem(ctx, storage.KeyIsLoggedIn, "true"); err != nil {
		return resp, err
	}
	if err := s.store.SetItem(ctx, storage.KeyPendingVerificationEmail, creds.Email); err != nil {
		return resp, err
	}
	s.logger.Info("registered", zap.String("email", creds.Email))
	return resp, nil
}

// Logout tells the backend and clears the keys. An expired token still
// clears the keys but reports ErrSessionExpired.
func (s *Session) Logout(ctx context.Context) error {
	err := s.Client(ctx).Logout(ctx)
	switch {
	case err == nil:
	case api.IsTokenExpired(err):
		if cerr := s.clear(ctx); cerr != nil {
			return cerr
		}
		s.logger.Info("session expired on logout")
		return ErrSessionExpired
	default:
		return err
	}
	return s.clear(ctx)
}

// ResendVerification asks the backend to resend the email for the pending
// registration.
func (s *Session) ResendVerification(ctx context.Context) error {
	email, ok, err := s.store.GetItem(ctx, storage.KeyPendingVerificationEmail)
	if err != nil {
		return err
	}
	if !ok || email == "" {
		return ErrNoPendingEmail
	}
	return s.client.ResendVerification(ctx, email)
}

func (s *Session) clear(ctx context.Context) error {
	if err := s.store.RemoveItem(ctx, storage.KeyAccessToken); err != nil {
		return err
	}
	if err := s.store.RemoveItem(ctx, storage.KeyUserID); err != nil {
		return err
	}
	return s.store.SetItem(ctx, storage.KeyIsLoggedIn, "false")
}

// TokenExpired reads the exp claim without verifying the signature. Tokens
// that are not JWTs, or carry no exp, never count as expired.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
