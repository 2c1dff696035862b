package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/logger"
	"github.com/yigit/erpconsole/internal/pkg/metrics"
)

// maxBodyBytes caps how much of a backend response is read
const maxBodyBytes = 1 << 20

type forwardedCookieKey struct{}

// WithForwardedCookies attaches the browser's Cookie header so backend calls
// run with the signed-in user's session.
func WithForwardedCookies(ctx context.Context, cookieHeader string) context.Context {
	return context.WithValue(ctx, forwardedCookieKey{}, cookieHeader)
}

func forwardedCookies(ctx context.Context) string {
	v, _ := ctx.Value(forwardedCookieKey{}).(string)
	return v
}

type requestIDKey struct{}

// WithRequestID propagates the console request id to the backend.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// BackendClient talks JSON to the records backend.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewBackendClient creates a backend client. m may be nil.
func NewBackendClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *BackendClient {
	return &BackendClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

// BaseURL returns the backend root, used for browser-facing links such as /login.
func (c *BackendClient) BaseURL() string {
	return c.baseURL
}

// response is a successful backend reply.
type response struct {
	status int
	header http.Header
	body   []byte
}

// do sends one request. Non-2xx replies and transport failures come back as
// *apperrors.APIError.
func (c *BackendClient) do(ctx context.Context, op, method, path string, in interface{}) (*response, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookies := forwardedCookies(ctx); cookies != "" {
		req.Header.Set("Cookie", cookies)
	}
	if id, _ := ctx.Value(requestIDKey{}).(string); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveBackendCall(op, 0, start)
		log.Warn().Err(err).Str("operation", op).Str("method", method).Str("path", path).Msg("Backend unreachable")
		return nil, apperrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveBackendCall(op, resp.StatusCode, start)
	if err != nil {
		log.Warn().Err(err).Str("operation", op).Msg("Failed to read backend response")
		return nil, apperrors.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := apperrors.NewHTTPError(resp.StatusCode, decodeErrorBody(body))
		log.Debug().
			Str("operation", op).
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("Backend returned error")
		return nil, apiErr
	}

	log.Debug().
		Str("operation", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend call")

	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// doJSON sends a request and decodes a JSON reply into out.
func (c *BackendClient) doJSON(ctx context.Context, op, method, path string, in, out interface{}) error {
	resp, err := c.do(ctx, op, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// decodeErrorBody returns nil for empty or non-JSON bodies.
func decodeErrorBody(body []byte) *apperrors.ErrorBody {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var eb apperrors.ErrorBody
	if err := json.Unmarshal(trimmed, &eb); err != nil {
		return nil
	}
	return &eb
}
