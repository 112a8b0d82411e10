package cli

import (
	"fmt"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/pkg/adapters/file"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/adapters/redis"
	"github.com/aretw0/waypoint/pkg/ports"
)

// OpenStore creates the status store selected by cfg.
// The returned close function is never nil.
func OpenStore(cfg config.Store) (ports.StatusStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Kind {
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile, "":
		return file.New(cfg.Path), noop, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}
