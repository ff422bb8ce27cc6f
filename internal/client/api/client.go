// Package api is the single point of outbound HTTP communication with the
// Revline backend. It attaches the current bearer token to every request,
// normalizes response envelopes, and converts failures into *APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/revline/revline-go/internal/common"
	"github.com/revline/revline-go/internal/logging"
)

// DefaultTimeout bounds every request; exceeding it surfaces as a generic
// network failure with no partial-result handling.
const DefaultTimeout = 15 * time.Second

// TokenSource yields the current bearer token. The token is read at call
// time, never captured earlier, because it may rotate between calls.
type TokenSource interface {
	Token() string
}

// Client issues HTTP requests against the backend. A 401 from any call
// invokes the unauthorized hook before the error is returned, so a stale
// token cannot be reused by a later call. There is no automatic retry:
// a 401 is terminal for the whole session, not just the single call.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            logging.Logger
	debug          bool
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// SetUnauthorizedHook registers the function invoked on any 401 response.
// The session store wires its logout here.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// SetDebug toggles request/response body logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Get issues a GET and returns the normalized payload.
func (c *Client) Get(ctx context.Context, path string) (any, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil)
}

// Post issues a POST with a JSON body and returns the normalized payload.
func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	return c.doJSON(ctx, http.MethodPost, path, body)
}

// Put issues a PUT with a JSON body and returns the normalized payload.
func (c *Client) Put(ctx context.Context, path string, body any) (any, error) {
	return c.doJSON(ctx, http.MethodPut, path, body)
}

// Patch issues a PATCH with a JSON body and returns the normalized payload.
func (c *Client) Patch(ctx context.Context, path string, body any) (any, error) {
	return c.doJSON(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE and returns the normalized payload.
func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	return c.doJSON(ctx, http.MethodDelete, path, nil)
}

// PostRaw issues a POST and returns the undecoded body, skipping
// normalization. The auth orchestrator uses it for endpoints whose
// envelope carries discriminator fields (user_type) that unwrapping
// would drop.
func (c *Client) PostRaw(ctx context.Context, path string, body any) (json.RawMessage, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}
	return c.do(ctx, http.MethodPost, path, buf, "application/json")
}

// UploadFile is one file field of a multipart upload.
type UploadFile struct {
	FieldName string
	FileName  string
	Content   []byte
}

// Upload issues a multipart/form-data POST (images, avatar, company-logo
// endpoints) and returns the normalized payload.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, files []UploadFile) (any, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("create form file %s: %w", f.FieldName, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("write form file %s: %w", f.FieldName, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return decodeNormalized(raw)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (any, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	raw, err := c.do(ctx, method, path, buf, "application/json")
	if err != nil {
		return nil, err
	}
	return decodeNormalized(raw)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeader, requestID)

	// Token is read from the session store at call time, not captured
	// when the client was built.
	if token := c.tokens.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}

	if c.debug {
		c.log.Debug(ctx, "api request", "method", method, "path", path, "request_id", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if c.debug {
		c.log.Debug(ctx, "api response",
			"method", method, "path", path, "request_id", requestID,
			"status", resp.StatusCode, "bytes", len(respBody))
	}

	if resp.StatusCode >= 400 {
		apiErr := buildAPIError(resp.StatusCode, respBody)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			// Session terminates before the caller sees the error.
			c.onUnauthorized()
		}
		return nil, apiErr
	}

	return respBody, nil
}

func (c *Client) mapTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Errorf("%w: request timed out", common.ErrUnavailable)
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, urlErr.Err)
	}
	return err
}

func buildAPIError(status int, body []byte) *APIError {
	var eb errorBody
	// Some failure paths return HTML or empty bodies; keep the status
	// even when the body is not the expected JSON shape.
	_ = json.Unmarshal(body, &eb)

	return &APIError{
		Status:             status,
		Message:            eb.Message,
		RequiredPermission: eb.RequiredPermission,
		YourRoles:          eb.YourRoles,
		YourPermissions:    eb.YourPermissions,
		Fields:             eb.Errors,
	}
}

func decodeNormalized(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return Normalize(decoded), nil
}
