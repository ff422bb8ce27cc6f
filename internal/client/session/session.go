// Package session owns the current authentication token and active
// identity. It is the only piece of truly shared mutable state in the
// client: the transport reads the token from it on every call, the auth
// orchestrator writes it, and screens observe it through snapshots.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/revline/revline-go/internal/client/models"
	"github.com/revline/revline-go/internal/client/vault"
	"github.com/revline/revline-go/internal/common"
	"github.com/revline/revline-go/internal/logging"
)

// Session is an immutable snapshot of the store's state.
//
// Invariant: Token != "" implies Role is one of the four concrete roles;
// Role == RoleNone implies Token == "". Hydrated distinguishes "still
// loading" from "confirmed logged out" at startup.
type Session struct {
	Token         string
	Role          models.Role
	Identity      models.Identity
	Authenticated bool
	Hydrated      bool
}

// Store holds at most one token/role/identity triple. Logging in as a new
// role discards the previous session (last write wins). All three fields
// mutate together, so a failed operation can never leave a token without
// its identity or the other way round.
//
// The in-memory state is authoritative immediately; the durable copy in
// the vault is best effort, and persistence failures are logged, never
// surfaced.
type Store struct {
	mu            sync.RWMutex
	token         string
	role          models.Role
	identity      models.Identity
	authenticated bool
	hydrated      bool

	vault vault.Vault
	log   logging.Logger
}

// NewStore builds a Store. v may be nil for an ephemeral, in-memory-only
// session.
func NewStore(v vault.Vault, log logging.Logger) *Store {
	return &Store{vault: v, log: log}
}

// Token returns the current bearer token. Satisfies api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{
		Token:         s.token,
		Role:          s.role,
		Identity:      s.identity,
		Authenticated: s.authenticated,
		Hydrated:      s.hydrated,
	}
}

// Identity returns the active identity record.
func (s *Store) Identity() models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Login replaces token, role, and identity atomically and persists the
// session for restart restore.
func (s *Store) Login(ctx context.Context, token string, role models.Role, identity models.Identity) {
	s.mu.Lock()
	s.token = token
	s.role = role
	s.identity = identity
	s.authenticated = true
	s.mu.Unlock()

	s.persist(ctx)
}

// Logout clears token, role, and identity and drops the persisted copy.
// Safe to call repeatedly; the transport's 401 hook lands here, so a
// stale token cannot be reused by a later call.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.role = models.RoleNone
	s.identity = models.Identity{}
	s.authenticated = false
	s.mu.Unlock()

	if s.vault == nil {
		return
	}
	if err := s.vault.Clear(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear persisted session", "error", err)
	}
}

// SetUser replaces only the identity record, leaving the token alone.
// Used after profile edits and after the admin identity refresh. Dropped
// when no session is active: a profile edit or identity refresh can land
// after another screen's 401 already forced a logout, and its result must
// not bring back a tokenless half-session, in memory or in the vault.
func (s *Store) SetUser(ctx context.Context, identity models.Identity) {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return
	}
	s.identity = identity
	s.mu.Unlock()

	s.persist(ctx)
}

// Hydrate restores a previously persisted session, once, at process
// start. A persisted token whose JWT exp has passed is discarded rather
// than restored; tokens that are not JWTs are restored as-is. The
// hydrated flag is set whether or not a session was found.
func (s *Store) Hydrate(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.hydrated = true
		s.mu.Unlock()
	}()

	if s.vault == nil {
		return
	}

	rec, err := s.vault.LoadSession(ctx)
	if err != nil {
		s.log.Debug(ctx, "no session restored", "reason", err)
		return
	}

	// A record without a token or role cannot satisfy the invariant
	// above; whatever wrote it, restoring it would produce a session
	// that is authenticated in name only.
	if rec.Token == "" || rec.Role == models.RoleNone {
		s.log.Warn(ctx, "persisted session incomplete, discarding")
		if err := s.vault.Clear(ctx); err != nil {
			s.log.Warn(ctx, "failed to clear incomplete session", "error", err)
		}
		return
	}

	if tokenExpired(rec.Token) {
		s.log.Info(ctx, "persisted session discarded", "role", rec.Role, "reason", common.ErrTokenExpired)
		if err := s.vault.Clear(ctx); err != nil {
			s.log.Warn(ctx, "failed to clear expired session", "error", err)
		}
		return
	}

	s.mu.Lock()
	s.token = rec.Token
	s.role = rec.Role
	s.identity = rec.Identity
	s.authenticated = true
	s.mu.Unlock()

	s.log.Info(ctx, "session restored", "role", rec.Role)
}

func (s *Store) persist(ctx context.Context) {
	if s.vault == nil {
		return
	}

	s.mu.RLock()
	rec := vault.Record{Token: s.token, Role: s.role, Identity: s.identity}
	s.mu.RUnlock()

	if err := s.vault.SaveSession(ctx, rec); err != nil {
		s.log.Warn(ctx, "failed to persist session", "error", err)
	}
}

// nowFn is a test seam for time.Now.
var nowFn = time.Now

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not verified; the backend remains the authority, this
// only avoids restoring a session that is guaranteed to 401.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(nowFn())
}
