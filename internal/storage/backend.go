package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/homedash-core/internal/infrastructure/config"
)

// Backend is the store selected by configuration plus a function that
// releases its connections.
type Backend struct {
	Store Store
	Close func() error
}

// OpenBackend builds the store named by cfg.Backend. local is the durable
// local store; it serves the "local" backend and is the fallback of the
// "remote" one.
func OpenBackend(ctx context.Context, cfg config.StorageConfig, local Store, logger Logger, counter FallbackCounter) (*Backend, error) {
	if logger == nil {
		logger = noopLogger{}
	}
	nop := func() error { return nil }

	switch cfg.Backend {
	case "", config.StorageBackendLocal:
		return &Backend{Store: local, Close: nop}, nil

	case config.StorageBackendRemote:
		opts := []RemoteOption{WithFallback(local), WithLogger(logger)}
		if cfg.Remote.Timeout > 0 {
			opts = append(opts, WithHTTPClient(newHTTPClient(time.Duration(cfg.Remote.Timeout)*time.Second)))
		}
		if counter != nil {
			opts = append(opts, WithFallbackCounter(counter))
		}
		remote, err := NewRemoteStore(cfg.Remote.BaseURL, opts...)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: remote, Close: nop}, nil

	case config.StorageBackendRedis:
		client, err := DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: NewRedisStore(client, cfg.Redis.Prefix), Close: client.Close}, nil
	}
	return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
}
