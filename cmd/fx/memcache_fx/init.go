package memcache_fx

import (
	"context"
	"time"

	"aitravel/internal/config"
	"aitravel/pkg/logger"
	mem "aitravel/pkg/memcache"

	"go.uber.org/fx"
)

const purgeInterval = 10 * time.Minute

var Module = fx.Provide(providePlanStore)

// providePlanStore uses Redis when REDIS_URL is set and an in-process map otherwise.
func providePlanStore(lc fx.Lifecycle, cfg *config.Config) (mem.PlanStore, error) {
	if cfg.RedisURL != "" {
		store, err := mem.NewRedisPlanStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := store.Ping(ctx); err != nil {
					logger.Log.Warnw("redis not reachable yet", "error", err)
				}
				return nil
			},
			OnStop: func(context.Context) error {
				return store.Close()
			},
		})
		return store, nil
	}

	store := mem.NewLastPlans()
	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go purgeLoop(store, stop)
			return nil
		},
		OnStop: func(context.Context) error {
			close(stop)
			return nil
		},
	})
	return store, nil
}

func purgeLoop(store *mem.LastPlans, stop <-chan struct{}) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := store.Purge(); n > 0 {
				logger.Log.Debugw("purged expired plans", "count", n)
			}
		case <-stop:
			return
		}
	}
}
