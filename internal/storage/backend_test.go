package storage

import (
	"context"
	"testing"

	"github.com/nerrad567/homedash-core/internal/infrastructure/config"
)

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryStore()

	t.Run("local", func(t *testing.T) {
		b, err := OpenBackend(ctx, config.StorageConfig{Backend: config.StorageBackendLocal}, local, nil, nil)
		if err != nil {
			t.Fatalf("OpenBackend() error = %v", err)
		}
		if b.Store != Store(local) {
			t.Error("local backend did not return the local store")
		}
		if err := b.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("remote", func(t *testing.T) {
		cfg := config.StorageConfig{
			Backend: config.StorageBackendRemote,
			Remote:  config.RemoteStoreConfig{BaseURL: "http://localhost:1880/api", Timeout: 1},
		}
		b, err := OpenBackend(ctx, cfg, local, nil, nil)
		if err != nil {
			t.Fatalf("OpenBackend() error = %v", err)
		}
		if _, ok := b.Store.(*RemoteStore); !ok {
			t.Errorf("Store = %T, want *RemoteStore", b.Store)
		}
	})

	t.Run("remote bad url", func(t *testing.T) {
		cfg := config.StorageConfig{Backend: config.StorageBackendRemote}
		if _, err := OpenBackend(ctx, cfg, local, nil, nil); err == nil {
			t.Error("OpenBackend() error = nil, want error")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := OpenBackend(ctx, config.StorageConfig{Backend: "floppy"}, local, nil, nil); err == nil {
			t.Error("OpenBackend() error = nil, want error")
		}
	})
}
