package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing store file before initializing."`
	Source string `help:"Store path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *Context) error {
	store, err := ctx.provider()
	if err != nil {
		return err
	}

	if c.Force {
		if err := c.removeExisting(store); err != nil {
			return err
		}
	}

	if err := store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized %s storage at: %s\n", constants.AppName, store.GetConfigPath())

	if c.Source != "" {
		ctx.printf("Copying data from: %s\n", c.Source)
		copied, err := copyBlobs(c.Source, store)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.printf("Copied %d blobs.\n", copied)
	}
	return nil
}

func (c *InitCmd) removeExisting(store storage.Provider) error {
	path := store.GetConfigPath()
	if c.Source != "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			path = abs
		}
		if src, err := filepath.Abs(c.Source); err == nil && src == path {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("failed to close existing store: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete existing store: %w", err)
	}
	logger.Info("Deleted existing store", "path", path)
	return nil
}

// copyBlobs copies every key of the source store into dst. Backends are
// interchangeable because every one of them holds the same blobs.
func copyBlobs(source string, dst storage.Provider) (int, error) {
	src, err := OpenProvider(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	keys, err := src.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}
	for _, key := range keys {
		value, err := src.Get(key)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if err := dst.Set(key, value); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return len(keys), nil
}
