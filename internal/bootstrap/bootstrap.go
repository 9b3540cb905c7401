// Package bootstrap constructs the storage, cache and locking backends
// from configuration. It is the only package that imports the concrete
// drivers; everything above it works against the repository and lock
// interfaces.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/cache/memory"
	"github.com/reeltube/reeltube/internal/config"
	"github.com/reeltube/reeltube/internal/lock"
	"github.com/reeltube/reeltube/internal/repository"
	"github.com/reeltube/reeltube/internal/repository/postgres"
	redisrepo "github.com/reeltube/reeltube/internal/repository/redis"
	"github.com/reeltube/reeltube/internal/repository/sqlite"
)

// Backends bundles the constructed infrastructure.
type Backends struct {
	Repos  *repository.Repositories
	DB     repository.DatabaseHealth
	Cache  repository.Cache
	Locker lock.Locker

	closers []func() error
}

// Close releases all backend resources in reverse construction order.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

// Open constructs repositories, cache and locker per the configuration.
// SQLite deployments migrate in-process at startup; PostgreSQL schemas
// are managed by the migrate command. When Redis is disabled the cache
// and locker fall back to in-process implementations, which only
// serialize reactions within a single replica.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backends, error) {
	b := &Backends{}

	repos, db, err := OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	b.Repos = repos
	b.DB = db
	b.closers = append(b.closers, db.Close)

	if cfg.Redis.Enabled {
		client, err := redisrepo.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		b.Cache = redisrepo.NewCache(client, logger)
		b.Locker = lock.NewRedisLocker(redisrepo.NewLock(client))
	} else {
		c := memory.NewCache()
		b.closers = append(b.closers, func() error { c.Stop(); return nil })
		b.Cache = c
		b.Locker = lock.NewMemoryLocker()
	}

	return b, nil
}

// OpenDatabase constructs only the repository layer. The admin CLI
// uses this to avoid touching Redis.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Repositories, repository.DatabaseHealth, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqliteConfig(cfg.Database), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		repos := &repository.Repositories{
			User:    sqlite.NewUserRepository(db),
			Channel: sqlite.NewChannelRepository(db),
			Video:   sqlite.NewVideoRepository(db),
			Comment: sqlite.NewCommentRepository(db),
		}
		return repos, db, nil

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres pool: %w", err)
		}
		repos := &repository.Repositories{
			User:    postgres.NewUserRepository(db),
			Channel: postgres.NewChannelRepository(db),
			Video:   postgres.NewVideoRepository(db),
			Comment: postgres.NewCommentRepository(db),
		}
		return repos, db, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func sqliteConfig(cfg config.DatabaseConfig) sqlite.Config {
	sc := sqlite.DefaultConfig(cfg.Path)
	if cfg.JournalMode != "" {
		sc.JournalMode = cfg.JournalMode
	}
	if cfg.BusyTimeout > 0 {
		sc.BusyTimeout = cfg.BusyTimeout
	}
	if cfg.CacheSize != 0 {
		sc.CacheSize = cfg.CacheSize
	}
	if cfg.SynchronousMode != "" {
		sc.SynchronousMode = cfg.SynchronousMode
	}
	return sc
}
