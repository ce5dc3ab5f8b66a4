package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultRemoteTimeout bounds one request when no client is supplied.
const defaultRemoteTimeout = 5 * time.Second

// maxRemoteBody limits how much of a response is read.
const maxRemoteBody = 4 << 20

// FallbackCounter is notified every time RemoteStore falls back to the
// local store.
type FallbackCounter interface {
	StorageFallback(op string)
}

// RemoteStore addresses values as {base}/storage/{key}: GET loads, POST
// saves and DELETE removes.
//
// When the request cannot be made at all (connection refused, timeout) the
// operation is repeated on the local fallback store. A response with a
// non-2xx status is a failure and is not retried locally; on load it counts
// as absent.
type RemoteStore struct {
	base     string
	client   *http.Client
	fallback Store
	logger   Logger
	counter  FallbackCounter
}

// RemoteOption configures a RemoteStore.
type RemoteOption func(*RemoteStore)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *RemoteStore) { r.client = c }
}

// WithFallback sets the store used when the remote cannot be reached.
func WithFallback(s Store) RemoteOption {
	return func(r *RemoteStore) { r.fallback = s }
}

// WithLogger sets the logger.
func WithLogger(l Logger) RemoteOption {
	return func(r *RemoteStore) { r.logger = l }
}

// WithFallbackCounter registers a counter for fallbacks.
func WithFallbackCounter(c FallbackCounter) RemoteOption {
	return func(r *RemoteStore) { r.counter = c }
}

// NewRemoteStore creates a store for the API rooted at base, for example
// "http://pi.local:1880/api".
func NewRemoteStore(base string, opts ...RemoteOption) (*RemoteStore, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("storage: invalid remote base url %q", base)
	}
	r := &RemoteStore{
		base:   strings.TrimRight(base, "/"),
		client: newHTTPClient(defaultRemoteTimeout),
		logger: noopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *RemoteStore) keyURL(key string) string {
	return r.base + "/storage/" + url.PathEscape(key)
}

// transportError marks failures where no HTTP response was received.
type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func (r *RemoteStore) do(ctx context.Context, method, key string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.keyURL(key), rd)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, &transportError{err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return resp.StatusCode, nil, &transportError{err: err}
	}
	return resp.StatusCode, data, nil
}

func (r *RemoteStore) fallBack(op, key string, err error) bool {
	var te *transportError
	if !errors.As(err, &te) || r.fallback == nil {
		return false
	}
	r.logger.Warn("remote storage unreachable, using local fallback", "op", op, "key", key, "error", err)
	if r.counter != nil {
		r.counter.StorageFallback(op)
	}
	return true
}

func statusOK(code int) bool {
	return code >= 200 && code < 300
}

// Save implements Store.
func (r *RemoteStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	code, _, err := r.do(ctx, http.MethodPost, key, data)
	if err != nil {
		if r.fallBack("save", key, err) {
			return r.fallback.Save(ctx, key, data)
		}
		return fmt.Errorf("saving %s: %w", key, err)
	}
	if !statusOK(code) {
		return fmt.Errorf("%w: save %s: status %d", ErrRemoteUnavailable, key, code)
	}
	return nil
}

// Load implements Store.
func (r *RemoteStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	code, data, err := r.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		if r.fallBack("load", key, err) {
			return r.fallback.Load(ctx, key)
		}
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	switch {
	case code == http.StatusNotFound:
		return nil, ErrNotFound
	case !statusOK(code):
		return nil, fmt.Errorf("%w: load %s: status %d", ErrRemoteUnavailable, key, code)
	}
	return data, nil
}

// Remove implements Store.
func (r *RemoteStore) Remove(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	code, _, err := r.do(ctx, http.MethodDelete, key, nil)
	if err != nil {
		if r.fallBack("remove", key, err) {
			return r.fallback.Remove(ctx, key)
		}
		return fmt.Errorf("removing %s: %w", key, err)
	}
	if !statusOK(code) && code != http.StatusNotFound {
		return fmt.Errorf("%w: remove %s: status %d", ErrRemoteUnavailable, key, code)
	}
	return nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
