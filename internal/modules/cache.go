package modules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS sources (
	path       TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// CachedLoader stores every source fetched through Inner in a SQLite
// database and serves the stored copy when Inner fails.
type CachedLoader struct {
	Inner  Loader
	db     *sql.DB
	logger *zap.Logger
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string, inner Loader, logger *zap.Logger) (*CachedLoader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache %s: %w", path, err)
	}
	return &CachedLoader{Inner: inner, db: db, logger: logger}, nil
}

func (c *CachedLoader) Load(ctx context.Context, path string) (string, error) {
	src, err := c.Inner.Load(ctx, path)
	if err == nil {
		if serr := c.store(ctx, path, src); serr != nil {
			c.logger.Warn("cache write failed", zap.String("path", path), zap.Error(serr))
		}
		return src, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	cached, ok, cerr := c.lookup(ctx, path)
	if cerr != nil {
		return "", errors.Join(err, cerr)
	}
	if !ok {
		return "", err
	}
	c.logger.Info("serving cached source", zap.String("path", path), zap.Error(err))
	return cached, nil
}

func (c *CachedLoader) store(ctx context.Context, path, src string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO sources (path, content, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET content = excluded.content, fetched_at = excluded.fetched_at`,
		path, src, time.Now().Unix())
	return err
}

func (c *CachedLoader) lookup(ctx context.Context, path string) (string, bool, error) {
	var src string
	err := c.db.QueryRowContext(ctx, `SELECT content FROM sources WHERE path = ?`, path).Scan(&src)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache for %s: %w", path, err)
	}
	return src, true, nil
}

func (c *CachedLoader) Close() error {
	return c.db.Close()
}
