// Package vault persists the active session so the client can restore it
// after a restart. Records are AES-GCM encrypted with a key derived from
// the configured device secret; only the role tag is stored in the clear,
// and loads cross-check it against the decrypted record.
package vault

import (
	"context"

	"github.com/revline/revline-go/internal/client/models"
)

// Record is the persisted session: the token, its role tag, and the
// role-specific identity record that was live when it was saved.
type Record struct {
	Token    string          `json:"token"`
	Role     models.Role     `json:"role"`
	Identity models.Identity `json:"identity"`
}

// Vault is the durable store for at most one session record.
type Vault interface {
	// SaveSession replaces whatever record is stored.
	SaveSession(ctx context.Context, rec Record) error

	// LoadSession returns the stored record, or common.ErrSessionNotFound
	// when nothing is persisted, or common.ErrSessionCorrupted when the
	// stored bytes cannot be decrypted or decoded.
	LoadSession(ctx context.Context) (*Record, error)

	// Clear removes any stored record.
	Clear(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
