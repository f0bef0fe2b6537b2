package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

var _ library.Loader = (*CachedLoader)(nil)

// FolderSource reads a cached folder back by name.
type FolderSource interface {
	GetByName(name string) (*models.Folder, error)
}

// CachedLoader answers listings from the scan cache and falls back to a live loader on a miss.
type CachedLoader struct {
	cache    FolderSource
	fallback library.Loader
	logger   *log.Logger
}

// NewCachedLoader creates a CachedLoader. fallback may be nil, in which case misses yield no tracks.
func NewCachedLoader(cache FolderSource, fallback library.Loader, logger *log.Logger) *CachedLoader {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CachedLoader{cache: cache, fallback: fallback, logger: logger}
}

func (c *CachedLoader) Load(ctx context.Context, folder string) []string {
	cached, err := c.cache.GetByName(folder)
	if err == nil {
		return cached.Tracks()
	}

	c.logger.Debug("cache miss", "folder", folder, "err", err)
	if c.fallback == nil {
		return []string{}
	}
	return c.fallback.Load(ctx, folder)
}
