package modules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Loader fetches the source text of a module path. Paths are slash
// separated and relative to the loader's root.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// FileLoader reads modules from a directory on disk.
type FileLoader struct {
	Root string
}

func (l *FileLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := filepath.FromSlash(path)
	if !filepath.IsAbs(full) {
		full = filepath.Join(l.Root, full)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return string(data), nil
}

// FSLoader reads modules from an fs.FS, such as the embedded library.
type FSLoader struct {
	FS fs.FS
}

func (l *FSLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(l.FS, path)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return string(data), nil
}

// MapLoader serves modules from memory.
type MapLoader map[string]string

func (l MapLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, ok := l[path]
	if !ok {
		return "", fmt.Errorf("load %s: %w", path, fs.ErrNotExist)
	}
	return src, nil
}

// ChainLoader tries each loader in turn and returns the first success.
type ChainLoader []Loader

func (c ChainLoader) Load(ctx context.Context, path string) (string, error) {
	var errs []error
	for _, l := range c {
		src, err := l.Load(ctx, path)
		if err == nil {
			return src, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("load %s: no loaders configured", path)
	}
	return "", errors.Join(errs...)
}
