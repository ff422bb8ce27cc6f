package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revline/revline-go/internal/common"
	"github.com/revline/revline-go/internal/logging"
)

type staticTokens struct {
	mu    sync.Mutex
	token string
}

func (s *staticTokens) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *staticTokens) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *staticTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := &staticTokens{}
	return New(srv.URL, 5*time.Second, tokens, testLogger()), tokens
}

func TestClient_TokenReadAtCallTime(t *testing.T) {
	var seen []string
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(common.AuthorizationHeader))
		w.Write([]byte(`{"success":true,"data":{"ok":true}}`))
	}))

	ctx := context.Background()

	_, err := c.Get(ctx, "/first")
	require.NoError(t, err)

	tokens.set("rotated")
	_, err = c.Get(ctx, "/second")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer rotated"}, seen)
}

func TestClient_RequestHeaders(t *testing.T) {
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(common.RequestIDHeader))
		assert.Equal(t, "Bearer abc", r.Header.Get(common.AuthorizationHeader))
		w.Write([]byte(`{"ok":true}`))
	}))
	tokens.set("abc")

	_, err := c.Post(context.Background(), "/x", map[string]any{"k": "v"})
	require.NoError(t, err)
}

func TestClient_NormalizesResponse(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"id":"ab-1"}}`))
	}))

	got, err := c.Get(context.Background(), "/vehicles/ab-1")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"id": "ab-1", "uuid": "ab-1"}, got)
}

func TestClient_PostRawSkipsNormalization(t *testing.T) {
	body := `{"success":true,"user_type":"seller","data":{"token":"abc"}}`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	raw, err := c.PostRaw(context.Background(), "/unified-login", map[string]string{"email": "e"})
	require.NoError(t, err)

	assert.JSONEq(t, body, string(raw))
}

func TestClient_UnauthorizedInvokesHookBeforeReturn(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))

	hookCalled := false
	c.SetUnauthorizedHook(func() { hookCalled = true })

	_, err := c.Get(context.Background(), "/anything")

	require.Error(t, err)
	assert.True(t, hookCalled)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token expired", apiErr.Message)
}

func TestClient_ConcurrentUnauthorized(t *testing.T) {
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	tokens.set("stale")

	var mu sync.Mutex
	c.SetUnauthorizedHook(func() {
		mu.Lock()
		tokens.set("")
		mu.Unlock()
	})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Get(context.Background(), "/boom")
		}(i)
	}
	wg.Wait()

	// Both in-flight calls fail with unauthorized and the token is gone.
	for _, err := range errs {
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	}
	assert.Empty(t, tokens.Token())
}

func TestClient_ForbiddenDiagnostics(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{
			"message": "missing permission",
			"required_permission": "vehicles.delete",
			"your_roles": ["viewer"],
			"your_permissions": ["vehicles.view"]
		}`))
	}))

	_, err := c.Delete(context.Background(), "/vehicles/1")

	assert.True(t, errors.Is(err, common.ErrForbidden))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "vehicles.delete", apiErr.RequiredPermission)
	assert.Equal(t, []string{"viewer"}, apiErr.YourRoles)
	assert.Equal(t, []string{"vehicles.view"}, apiErr.YourPermissions)
}

func TestClient_ValidationFieldErrors(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid","errors":{"email":["required"]}}`))
	}))

	_, err := c.Post(context.Background(), "/sellers", map[string]any{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, map[string][]string{"email": {"required"}}, apiErr.Fields)
	assert.False(t, errors.Is(err, common.ErrUnauthorized))
	assert.False(t, errors.Is(err, common.ErrForbidden))
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>bad gateway</html>"))
	}))

	_, err := c.Get(context.Background(), "/x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "500")
}

func TestClient_NetworkErrorMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, time.Second, &staticTokens{}, testLogger())

	_, err := c.Get(context.Background(), "/x")

	assert.True(t, errors.Is(err, common.ErrUnavailable))
}

func TestClient_Upload(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "cover", r.FormValue("kind"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "front.jpg", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpegdata"), content)

		w.Write([]byte(`{"success":true,"data":{"id":"img-1"}}`))
	}))

	got, err := c.Upload(context.Background(), "/vehicles/v-1/images",
		map[string]string{"kind": "cover"},
		[]UploadFile{{FieldName: "image", FileName: "front.jpg", Content: []byte("jpegdata")}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"id": "img-1", "uuid": "img-1"}, got)
}

func TestClient_EmptyBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	got, err := c.Delete(context.Background(), "/notifications/1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
