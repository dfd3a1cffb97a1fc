package demodata

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/config"
)

// DefaultSQLiteFile is used when the sqlite path names a directory.
const DefaultSQLiteFile = "demodata.db"

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// OpenBlobStore opens the configured catalog backend. The returned closer is
// nil for backends that hold no connection.
func OpenBlobStore(ctx context.Context, cfg config.Catalog) (catalog.BlobStore, io.Closer, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return catalog.NewMemoryBlobStore(), nil, nil
	case config.BackendFile:
		store, err := catalog.NewFileBlobStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store := catalog.NewRedisBlobStore(client, cfg.RedisPrefix)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("demodata: redis %s: %w", cfg.RedisAddr, err)
		}
		return store, client, nil
	case config.BackendSQLite:
		return openSQLite(cfg.Path)
	default:
		return nil, nil, fmt.Errorf("%w: unknown catalog backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

func openSQLite(path string) (catalog.BlobStore, io.Closer, error) {
	if filepath.Ext(path) == "" {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, nil, fmt.Errorf("demodata: sqlite dir: %w", err)
		}
		path = filepath.Join(path, DefaultSQLiteFile)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("demodata: open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("demodata: sqlite handle: %w", err)
	}
	store, err := catalog.NewSQLBlobStore(db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return store, closerFunc(sqlDB.Close), nil
}
