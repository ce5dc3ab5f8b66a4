package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// TestRedisStore runs against a live Redis; set HOMEDASH_TEST_REDIS_ADDR to
// enable it.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("HOMEDASH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("HOMEDASH_TEST_REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := DialRedis(ctx, addr, "", 0)
	if err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	defer client.Close() //nolint:errcheck // test cleanup

	s := NewRedisStore(client, "homedash-test:")
	key := "userGlobalScenes"
	defer s.Remove(ctx, key) //nolint:errcheck // test cleanup

	if err := s.Save(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, key)
	if err != nil || string(got) != `[]` {
		t.Fatalf("Load() = %s, %v", got, err)
	}
	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := s.Load(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(removed) error = %v, want ErrNotFound", err)
	}
}

func TestDialRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := DialRedis(ctx, "127.0.0.1:1", "", 0); err == nil {
		t.Error("DialRedis() error = nil, want error")
	}
}
