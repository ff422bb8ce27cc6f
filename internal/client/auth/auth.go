// Package auth drives the unified login flow across the four portal
// roles: one login endpoint, a per-role extractor for the inconsistent
// response shapes, and a soft post-login identity refresh for admins.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/revline/revline-go/internal/client/api"
	"github.com/revline/revline-go/internal/client/models"
	"github.com/revline/revline-go/internal/client/session"
	"github.com/revline/revline-go/internal/common"
	"github.com/revline/revline-go/internal/logging"
)

// Transport is the slice of the API client the orchestrator needs.
type Transport interface {
	// PostRaw returns the undecoded body; the login envelope carries a
	// user_type discriminator that normalization would strip.
	PostRaw(ctx context.Context, path string, body any) (json.RawMessage, error)
	Get(ctx context.Context, path string) (any, error)
	Post(ctx context.Context, path string, body any) (any, error)
}

var logoutPaths = map[models.Role]string{
	models.RoleAdmin:    "/auth/logout",
	models.RoleSeller:   "/seller/logout",
	models.RoleMechanic: "/mechanic/logout",
	models.RoleInvestor: "/investor/logout",
}

// Orchestrator owns the login state machine: anonymous → authenticating →
// authenticated, and back to anonymous on logout or a forced 401.
type Orchestrator struct {
	api      Transport
	sessions *session.Store
	log      logging.Logger
	loading  atomic.Bool
}

func New(api Transport, sessions *session.Store, log logging.Logger) *Orchestrator {
	return &Orchestrator{api: api, sessions: sessions, log: log}
}

// Loading reports whether a login call is in flight.
func (o *Orchestrator) Loading() bool {
	return o.loading.Load()
}

// loginResponse is the wire shape of POST /unified-login.
type loginResponse struct {
	Success  bool            `json:"success"`
	UserType string          `json:"user_type"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
}

// Login authenticates against the unified login endpoint, stores the
// resulting session, and returns the role that was logged in. The session
// store is never touched on failure.
//
// For admins, a follow-up GET /auth/me replaces the stored identity with
// the richer record carrying nested role→permission data. That call is
// advisory: if it fails, the user stays logged in under the login-payload
// identity.
func (o *Orchestrator) Login(ctx context.Context, email, password string) (models.Role, error) {
	o.loading.Store(true)
	defer o.loading.Store(false)

	raw, err := o.api.PostRaw(ctx, "/unified-login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return models.RoleNone, err
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return models.RoleNone, fmt.Errorf("decode login response: %w", err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "login rejected"
		}
		return models.RoleNone, fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	}

	role, ok := models.ParseRole(resp.UserType)
	if !ok {
		return models.RoleNone, fmt.Errorf("%w: %q", common.ErrUnknownUserType, resp.UserType)
	}

	token, identity, err := extract(role, resp.Data)
	if err != nil {
		return models.RoleNone, err
	}

	o.sessions.Login(ctx, token, role, identity)
	o.log.Info(ctx, "login succeeded", "role", role)

	if role == models.RoleAdmin {
		o.refreshAdminIdentity(ctx)
	}

	return role, nil
}

// refreshAdminIdentity issues the "who am I" round-trip with the freshly
// stored token. Some deployments omit permission nesting on the login
// payload but include it on the profile fetch, so this keeps permission
// checks accurate without blocking entry. Failure is swallowed: the user
// remains logged in under the original identity.
func (o *Orchestrator) refreshAdminIdentity(ctx context.Context) {
	payload, err := o.api.Get(ctx, "/auth/me")
	if err != nil {
		o.log.Warn(ctx, "admin identity refresh failed, keeping login identity", "error", err)
		return
	}

	var me struct {
		User models.AdminUser `json:"user"`
	}
	if err := api.Decode(payload, &me); err != nil {
		o.log.Warn(ctx, "admin identity refresh unreadable, keeping login identity", "error", err)
		return
	}

	o.sessions.SetUser(ctx, models.Identity{Admin: &me.User})
}

// Logout notifies the backend on the role-appropriate endpoint (failure
// is swallowed) and then unconditionally clears the session store.
func (o *Orchestrator) Logout(ctx context.Context) {
	snap := o.sessions.Snapshot()

	if path, ok := logoutPaths[snap.Role]; ok {
		if _, err := o.api.Post(ctx, path, nil); err != nil {
			o.log.Debug(ctx, "logout notification failed", "role", snap.Role, "error", err)
		}
	}

	o.sessions.Logout(ctx)
}
