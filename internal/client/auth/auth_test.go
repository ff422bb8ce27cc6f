package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revline/revline-go/internal/client/models"
	"github.com/revline/revline-go/internal/client/session"
	"github.com/revline/revline-go/internal/common"
	"github.com/revline/revline-go/internal/logging"
)

// fakeTransport serves canned responses keyed by path.
type fakeTransport struct {
	postRawResp json.RawMessage
	postRawErr  error

	getResp map[string]any
	getErr  error

	postPaths []string
	postErr   error
}

func (f *fakeTransport) PostRaw(ctx context.Context, path string, body any) (json.RawMessage, error) {
	if f.postRawErr != nil {
		return nil, f.postRawErr
	}
	return f.postRawResp, nil
}

func (f *fakeTransport) Get(ctx context.Context, path string) (any, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResp[path], nil
}

func (f *fakeTransport) Post(ctx context.Context, path string, body any) (any, error) {
	f.postPaths = append(f.postPaths, path)
	if f.postErr != nil {
		return nil, f.postErr
	}
	return nil, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newOrchestrator(ft *fakeTransport) (*Orchestrator, *session.Store) {
	sessions := session.NewStore(nil, testLogger())
	return New(ft, sessions, testLogger()), sessions
}

func TestLogin_Seller(t *testing.T) {
	ft := &fakeTransport{postRawResp: json.RawMessage(`{
		"success": true,
		"user_type": "seller",
		"data": {"token": "abc", "seller": {"id": 1, "name": "X"}}
	}`)}
	o, sessions := newOrchestrator(ft)

	role, err := o.Login(context.Background(), "x@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, models.RoleSeller, role)
	snap := sessions.Snapshot()
	assert.Equal(t, "abc", snap.Token)
	assert.Equal(t, models.RoleSeller, snap.Role)
	require.NotNil(t, snap.Identity.Seller)
	assert.Equal(t, "X", snap.Identity.Seller.Name)
	assert.True(t, snap.Authenticated)
}

func TestLogin_AdminRefreshesIdentity(t *testing.T) {
	ft := &fakeTransport{
		postRawResp: json.RawMessage(`{
			"success": true,
			"user_type": "admin",
			"data": {"access_token": "adm-tok", "user": {"id": 9, "name": "Root"}}
		}`),
		getResp: map[string]any{
			"/auth/me": map[string]any{
				"user": map[string]any{
					"id": float64(9), "name": "Root",
					"roles": []any{map[string]any{
						"name": "super-admin",
						"permissions": []any{
							map[string]any{"name": "vehicles.delete"},
						},
					}},
				},
			},
		},
	}
	o, sessions := newOrchestrator(ft)

	role, err := o.Login(context.Background(), "root@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	admin := sessions.Identity().Admin
	require.NotNil(t, admin)
	require.Len(t, admin.Roles, 1)
	assert.Equal(t, "super-admin", admin.Roles[0].Name)
}

func TestLogin_AdminRefreshFailureKeepsLoginIdentity(t *testing.T) {
	ft := &fakeTransport{
		postRawResp: json.RawMessage(`{
			"success": true,
			"user_type": "admin",
			"data": {"access_token": "adm-tok", "user": {"id": 9, "name": "Root"}}
		}`),
		getErr: errors.New("profile endpoint down"),
	}
	o, sessions := newOrchestrator(ft)

	role, err := o.Login(context.Background(), "root@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	snap := sessions.Snapshot()
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.Identity.Admin)
	assert.Equal(t, "Root", snap.Identity.Admin.Name)
}

func TestLogin_InvestorWholeBagFallback(t *testing.T) {
	ft := &fakeTransport{postRawResp: json.RawMessage(`{
		"success": true,
		"user_type": "investor",
		"data": {"token": "inv-tok", "id": 3, "name": "Ivy", "total_invested": 1500}
	}`)}
	o, sessions := newOrchestrator(ft)

	role, err := o.Login(context.Background(), "ivy@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleInvestor, role)

	inv := sessions.Identity().Investor
	require.NotNil(t, inv)
	assert.Equal(t, "Ivy", inv.Name)
	assert.Equal(t, 1500.0, inv.TotalInvested)
}

func TestLogin_RejectedLeavesStoreUntouched(t *testing.T) {
	ft := &fakeTransport{postRawResp: json.RawMessage(`{
		"success": false,
		"message": "invalid credentials"
	}`)}
	o, sessions := newOrchestrator(ft)

	role, err := o.Login(context.Background(), "x@example.com", "wrong")

	assert.Equal(t, models.RoleNone, role)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Contains(t, err.Error(), "invalid credentials")
	assert.False(t, sessions.Snapshot().Authenticated)
}

func TestLogin_UnknownUserType(t *testing.T) {
	ft := &fakeTransport{postRawResp: json.RawMessage(`{
		"success": true,
		"user_type": "auditor",
		"data": {"token": "abc"}
	}`)}
	o, sessions := newOrchestrator(ft)

	role, err := o.Login(context.Background(), "x@example.com", "pw")

	assert.Equal(t, models.RoleNone, role)
	assert.True(t, errors.Is(err, common.ErrUnknownUserType))
	assert.False(t, sessions.Snapshot().Authenticated)
	assert.Empty(t, sessions.Token())
}

func TestLogin_MissingToken(t *testing.T) {
	ft := &fakeTransport{postRawResp: json.RawMessage(`{
		"success": true,
		"user_type": "seller",
		"data": {"seller": {"id": 1, "name": "X"}}
	}`)}
	o, sessions := newOrchestrator(ft)

	_, err := o.Login(context.Background(), "x@example.com", "pw")

	assert.True(t, errors.Is(err, common.ErrMissingToken))
	assert.False(t, sessions.Snapshot().Authenticated)
}

func TestLogin_TransportError(t *testing.T) {
	ft := &fakeTransport{postRawErr: common.ErrUnavailable}
	o, sessions := newOrchestrator(ft)

	_, err := o.Login(context.Background(), "x@example.com", "pw")

	assert.True(t, errors.Is(err, common.ErrUnavailable))
	assert.False(t, sessions.Snapshot().Authenticated)
}

func TestLogout_NotifiesRoleEndpoint(t *testing.T) {
	ft := &fakeTransport{postRawResp: json.RawMessage(`{
		"success": true,
		"user_type": "mechanic",
		"data": {"token": "m-tok", "mechanic": {"id": 4, "name": "Max"}}
	}`)}
	o, sessions := newOrchestrator(ft)

	_, err := o.Login(context.Background(), "max@example.com", "pw")
	require.NoError(t, err)

	o.Logout(context.Background())

	assert.Equal(t, []string{"/mechanic/logout"}, ft.postPaths)
	assert.False(t, sessions.Snapshot().Authenticated)
}

func TestLogout_BackendFailureStillClearsSession(t *testing.T) {
	ft := &fakeTransport{
		postRawResp: json.RawMessage(`{
			"success": true,
			"user_type": "seller",
			"data": {"token": "abc", "seller": {"id": 1, "name": "X"}}
		}`),
		postErr: errors.New("backend down"),
	}
	o, sessions := newOrchestrator(ft)

	_, err := o.Login(context.Background(), "x@example.com", "pw")
	require.NoError(t, err)

	o.Logout(context.Background())

	assert.False(t, sessions.Snapshot().Authenticated)
	assert.Empty(t, sessions.Token())
}

func TestLogout_AnonymousSkipsBackendCall(t *testing.T) {
	ft := &fakeTransport{}
	o, _ := newOrchestrator(ft)

	o.Logout(context.Background())

	assert.Empty(t, ft.postPaths)
}

func TestExtract_TokenFieldFallback(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
		data string
		want string
	}{
		{"admin prefers access_token", models.RoleAdmin,
			`{"access_token":"a","token":"b","user":{"id":1}}`, "a"},
		{"admin falls back to token", models.RoleAdmin,
			`{"token":"b","user":{"id":1}}`, "b"},
		{"seller prefers token", models.RoleSeller,
			`{"access_token":"a","token":"b","seller":{"id":1}}`, "b"},
		{"empty string skipped", models.RoleSeller,
			`{"token":"","access_token":"a","seller":{"id":1}}`, "a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, _, err := extract(tc.role, json.RawMessage(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.want, token)
		})
	}
}
