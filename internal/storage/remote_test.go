package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeRemote serves the {base}/storage/{key} protocol from a map.
type fakeRemote struct {
	mu     sync.Mutex
	data   map[string]string
	status int // forced status when non-zero
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	key := r.URL.Path[len("/api/storage/"):]
	switch r.Method {
	case http.MethodGet:
		v, ok := f.data[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, v)
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		f.data[key] = string(body)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.data, key)
		w.WriteHeader(http.StatusOK)
	}
}

type countingFallbacks struct {
	mu  sync.Mutex
	ops []string
}

func (c *countingFallbacks) StorageFallback(op string) {
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
}

func TestNewRemoteStore_InvalidURL(t *testing.T) {
	for _, base := range []string{"", "not a url", "/api"} {
		if _, err := NewRemoteStore(base); err == nil {
			t.Errorf("NewRemoteStore(%q) error = nil, want error", base)
		}
	}
}

func TestRemoteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{data: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s, err := NewRemoteStore(srv.URL + "/api/")
	if err != nil {
		t.Fatalf("NewRemoteStore() error = %v", err)
	}

	if _, err := s.Load(ctx, "userGlobalScenes"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(absent) error = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, "userGlobalScenes", []byte(`[1]`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, "userGlobalScenes")
	if err != nil || string(got) != `[1]` {
		t.Fatalf("Load() = %s, %v", got, err)
	}
	if err := s.Remove(ctx, "userGlobalScenes"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(fake.data) != 0 {
		t.Errorf("remote still holds %v", fake.data)
	}
}

func TestRemoteStore_ErrorStatus(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{data: map[string]string{}, status: http.StatusInternalServerError}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	local := NewMemoryStore()
	s, _ := NewRemoteStore(srv.URL+"/api", WithFallback(local))

	if err := s.Save(ctx, "k", []byte(`1`)); !errors.Is(err, ErrRemoteUnavailable) {
		t.Errorf("Save() error = %v, want ErrRemoteUnavailable", err)
	}
	if _, err := s.Load(ctx, "k"); !errors.Is(err, ErrRemoteUnavailable) {
		t.Errorf("Load() error = %v, want ErrRemoteUnavailable", err)
	}
	if err := s.Remove(ctx, "k"); !errors.Is(err, ErrRemoteUnavailable) {
		t.Errorf("Remove() error = %v, want ErrRemoteUnavailable", err)
	}
	if local.Keys() != 0 {
		t.Error("error status must not fall back to the local store")
	}

	// Through the service a failed load degrades to the default.
	svc := NewService(s, nil)
	if got := Load(ctx, svc, "k", []int{}); got == nil || len(got) != 0 {
		t.Errorf("Load() = %v, want empty default", got)
	}
}

func TestRemoteStore_FallbackWhenUnreachable(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api"
	srv.Close() // nothing listens any more

	local := NewMemoryStore()
	counter := &countingFallbacks{}
	s, err := NewRemoteStore(base, WithFallback(local), WithFallbackCounter(counter))
	if err != nil {
		t.Fatalf("NewRemoteStore() error = %v", err)
	}

	if err := s.Save(ctx, "userGlobalScenes", []byte(`["x"]`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, "userGlobalScenes")
	if err != nil || string(got) != `["x"]` {
		t.Fatalf("Load() = %s, %v", got, err)
	}
	if err := s.Remove(ctx, "userGlobalScenes"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if local.Keys() != 0 {
		t.Error("Remove() did not reach the fallback")
	}

	want := []string{"save", "load", "remove"}
	if len(counter.ops) != len(want) {
		t.Fatalf("fallbacks = %v, want %v", counter.ops, want)
	}
	for i := range want {
		if counter.ops[i] != want[i] {
			t.Errorf("fallback[%d] = %q, want %q", i, counter.ops[i], want[i])
		}
	}
}

func TestRemoteStore_UnreachableWithoutFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	s, _ := NewRemoteStore(base)
	if err := s.Save(context.Background(), "k", []byte(`1`)); err == nil {
		t.Error("Save() error = nil, want transport error")
	}
}
