package main

import (
	"context"
	"fmt"

	"github.com/Sternrassler/payments-view/internal/config"
	"github.com/Sternrassler/payments-view/pkg/cache"
	"github.com/Sternrassler/payments-view/pkg/client"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// initRedis connects the shared cache layer. It returns nil when redis is not
// configured.
func initRedis(ctx context.Context, c *config.Config) (*redis.Client, error) {
	if !c.RedisEnabled() {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", c.Redis.Addr, err)
	}

	log.Info().Str("addr", c.Redis.Addr).Msg("Connected to Redis")
	return rdb, nil
}

// initClient builds the payments API client. rdb may be nil.
func initClient(c *config.Config, rdb *redis.Client) (*client.Client, error) {
	cc := client.DefaultConfig(c.API.URL)
	cc.UserAgent = c.API.UserAgent
	cc.Timeout = c.API.Timeout
	cc.MaxAttempts = c.API.MaxAttempts

	if c.Cache.Enabled {
		cc.Cache = cache.NewManager(cache.Options{TTL: c.Cache.TTL, Redis: rdb})
	}

	apiClient, err := client.New(cc)
	if err != nil {
		return nil, fmt.Errorf("create payments client: %w", err)
	}
	return apiClient, nil
}

// setup returns the client for the resolved configuration and a function
// releasing what it opened.
func setup(ctx context.Context) (*client.Client, *redis.Client, func(), error) {
	rdb, err := initRedis(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close Redis client")
			}
		}
	}

	apiClient, err := initClient(cfg, rdb)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	return apiClient, rdb, cleanup, nil
}
