package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Store is a key/value backend holding JSON documents.
type Store interface {
	// Save stores data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error
	// Load returns the value of key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Logger defines the logging interface used by the storage layer.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ValidateKey rejects keys that cannot be used as a URL path segment.
func ValidateKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/?#") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Result is the outcome of a background write. The zero value is not
// usable; results come from Service.Save and Service.Remove.
type Result struct {
	done chan struct{}
	err  error
}

func newResult() *Result {
	return &Result{done: make(chan struct{})}
}

// Completed returns a Result that has already finished with err.
func Completed(err error) *Result {
	r := newResult()
	r.finish(err)
	return r
}

// Join returns a Result that finishes when every result has finished. Its
// error joins the errors of the parts; superseded writes are not errors.
func Join(results ...*Result) *Result {
	joined := newResult()
	go func() {
		var errs []error
		for _, r := range results {
			if err := r.Wait(); err != nil && !errors.Is(err, ErrSuperseded) {
				errs = append(errs, err)
			}
		}
		joined.finish(errors.Join(errs...))
	}()
	return joined
}

func (r *Result) finish(err error) {
	r.err = err
	close(r.done)
}

// Done is closed when the write has finished.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the write has finished and returns its error.
func (r *Result) Wait() error {
	<-r.done
	return r.err
}

// OK waits for the write and reports whether it succeeded. A write skipped
// because a newer one won counts as success.
func (r *Result) OK() bool {
	err := r.Wait()
	return err == nil || errors.Is(err, ErrSuperseded)
}

// Service wraps a Store with JSON encoding, background writes and logging.
//
// Writes of the same key are applied in submission order: a write that
// finishes after a newer write of its key is dropped, so an older snapshot
// never replaces a newer one.
type Service struct {
	store  Store
	logger Logger

	writeMu sync.Mutex
	seqMu   sync.Mutex
	next    map[string]uint64
	written map[string]uint64
	wg      sync.WaitGroup
}

// NewService creates a Service over store. A nil logger discards output.
func NewService(store Store, logger Logger) *Service {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Service{
		store:   store,
		logger:  logger,
		next:    make(map[string]uint64),
		written: make(map[string]uint64),
	}
}

// Store returns the underlying backend.
func (s *Service) Store() Store {
	return s.store
}

// Save encodes v and writes it under key in the background. The returned
// Result may be waited on or ignored; failures are logged either way.
func (s *Service) Save(ctx context.Context, key string, v any) *Result {
	if err := ValidateKey(key); err != nil {
		return Completed(err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("storage encode failed", "key", key, "error", err)
		return Completed(fmt.Errorf("encoding %s: %w", key, err))
	}
	return s.submit(ctx, key, "save", func(ctx context.Context) error {
		return s.store.Save(ctx, key, data)
	})
}

// Remove deletes key in the background.
func (s *Service) Remove(ctx context.Context, key string) *Result {
	if err := ValidateKey(key); err != nil {
		return Completed(err)
	}
	return s.submit(ctx, key, "remove", func(ctx context.Context) error {
		return s.store.Remove(ctx, key)
	})
}

func (s *Service) submit(ctx context.Context, key, op string, write func(context.Context) error) *Result {
	s.seqMu.Lock()
	s.next[key]++
	seq := s.next[key]
	s.seqMu.Unlock()

	// The caller's cancellation must not abort a write it did not wait for.
	ctx = context.WithoutCancel(ctx)

	res := newResult()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		if seq < s.written[key] {
			s.logger.Debug("storage write superseded", "key", key, "op", op)
			res.finish(ErrSuperseded)
			return
		}

		err := write(ctx)
		if err != nil {
			s.logger.Error("storage write failed", "key", key, "op", op, "error", err)
			res.finish(fmt.Errorf("%s %s: %w", op, key, err))
			return
		}
		s.written[key] = seq
		s.logger.Debug("storage write complete", "key", key, "op", op)
		res.finish(nil)
	}()
	return res
}

// Flush waits for every background write submitted so far.
func (s *Service) Flush() {
	s.wg.Wait()
}

// Load decodes the value of key into a T. It returns def when the key is
// absent, the backend fails or the stored document does not decode.
func Load[T any](ctx context.Context, s *Service, key string, def T) T {
	if err := ValidateKey(key); err != nil {
		s.logger.Warn("storage load rejected", "key", key, "error", err)
		return def
	}
	data, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("storage key absent, using default", "key", key)
		} else {
			s.logger.Error("storage load failed, using default", "key", key, "error", err)
		}
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Error("storage value undecodable, using default", "key", key, "error", err)
		return def
	}
	return v
}
