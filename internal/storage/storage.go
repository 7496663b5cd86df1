// Package storage holds the small set of device-local keys the GemVoyage
// flows share, the way a browser keeps them in local storage.
package storage

import "context"

// Keys shared between the flows.
const (
	KeyIsLoggedIn               = "isLoggedIn"
	KeyAccessToken              = "access_token"
	KeyUserID                   = "userId"
	KeyPendingVerificationEmail = "pending_verification_email"
)

// Storage is a string key/value store scoped to one device.
type Storage interface {
	// GetItem returns the value and whether the key is present.
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem is a no-op for absent keys.
	RemoveItem(ctx context.Context, key string) error
}
