package cmd

import (
	"fmt"
	"os"
	"strings"

	"chronicle/redline/internal/app"
	"chronicle/redline/internal/gitrepo"
	"chronicle/redline/internal/segstore"
)

// newService wires the app service from config. Without redis.url segment
// sets are kept as files under diff.store_dir.
func newService() (*app.Service, *gitrepo.Service, func(), error) {
	if err := os.MkdirAll(cfg.Repos.Dir, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("create repos dir: %w", err)
	}
	repos := gitrepo.New(cfg.Repos.Dir)

	var store segstore.Store
	cleanup := func() {}
	if strings.TrimSpace(cfg.Redis.URL) != "" {
		redisStore, err := segstore.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		logger.Debug("using redis for segment sets")
		store = redisStore
		cleanup = func() { _ = redisStore.Close() }
	} else {
		fileStore, err := segstore.NewFileStore(cfg.Diff.StoreDir)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Debug("using files for segment sets", "dir", cfg.Diff.StoreDir)
		store = fileStore
	}
	return app.New(newEngine(), repos, store, cfg.Redis.TTL, logger), repos, cleanup, nil
}
