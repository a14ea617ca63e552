package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/aretw0/wayfinder/pkg/adapters/redis"
	"github.com/aretw0/wayfinder/pkg/deeplink"
	"github.com/spf13/cobra"
)

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// newRunner loads the scenario at path and builds its App. The returned
// cleanup closes the App and the Redis connection, if any.
func newRunner(ctx context.Context, cmd *cobra.Command, path string, opts ...scenario.Option) (*scenario.Runner, func(), error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := scenario.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if file, _ := cmd.Flags().GetString("deeplinks"); file != "" {
		cfg, err := deeplink.LoadConfig(file)
		if err != nil {
			return nil, nil, err
		}
		s.Deeplinks = cfg
	}

	opts = append([]scenario.Option{scenario.WithLogger(logger)}, opts...)
	closeStore := func() {}
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		prefix, _ := cmd.Flags().GetString("redis-prefix")
		store := redis.New(addr, "", 0, redis.WithPrefix(prefix))
		opts = append(opts, scenario.WithStateStore(store))
		closeStore = func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close redis store", "error", err)
			}
		}
		logger.Info("requirement states kept in redis", "addr", addr, "prefix", prefix)
	}

	r, err := scenario.NewRunner(ctx, s, opts...)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to build scenario %q: %w", path, err)
	}
	return r, func() {
		r.Close()
		closeStore()
	}, nil
}
