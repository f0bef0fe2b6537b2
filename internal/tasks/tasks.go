package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 4
	MaxWorkers       = 10
	DefaultRateLimit = 5
)

// Fetcher is implemented by loaders that can report why a listing failed.
type Fetcher interface {
	Fetch(ctx context.Context, folder string) ([]string, error)
}

// FolderStore persists scanned folders.
type FolderStore interface {
	Upsert(folder *models.Folder) error
}

// ScanOpts configures a library scan.
type ScanOpts struct {
	Workers   int     // Concurrent listing requests (default 4, max 10)
	RateLimit float64 // Listing requests per second (default 5)
}

func (o ScanOpts) withDefaults() ScanOpts {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers > MaxWorkers {
		o.Workers = MaxWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = DefaultRateLimit
	}
	return o
}

// FolderResult is the outcome of scanning one folder.
type FolderResult struct {
	Folder string
	Artist string
	Tracks []string
	Error  error
}

// ScanResult summarises a scan. Results keep the order of the requested folders.
type ScanResult struct {
	Total   int
	Scanned int
	Empty   int
	Failed  int
	Results []FolderResult
}

// Scanner fetches folder listings concurrently and caches them.
type Scanner struct {
	loader  library.Loader
	artists *library.Artists
	store   FolderStore
	logger  *log.Logger
}

// NewScanner creates a Scanner. store may be nil, in which case nothing is persisted.
func NewScanner(loader library.Loader, artists *library.Artists, store FolderStore, logger *log.Logger) *Scanner {
	if artists == nil {
		artists = library.DefaultArtists()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Scanner{loader: loader, artists: artists, store: store, logger: logger}
}

type scanJob struct {
	index  int
	folder string
}

// Scan lists every folder with a pool of workers. Listing requests are paced by a token bucket so a large library
// does not flood the songs server.
//
// Cancelling ctx stops the scan; the partial result is returned together with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, folders []string, progress chan<- ProgressUpdate, opts ScanOpts) (*ScanResult, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("%w: loader not initialized", shared.ErrServiceUnavailable)
	}

	opts = opts.withDefaults()
	total := len(folders)
	result := &ScanResult{Total: total, Results: make([]FolderResult, total)}

	s.sendProgress(progress, scanStartUpdate(total))
	if total == 0 {
		s.sendProgress(progress, scanCompleteUpdate(result))
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan scanJob, total)
	results := make(chan scanJob, total)

	go func() {
		defer close(jobs)
		for i, folder := range folders {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- scanJob{index: i, folder: folder}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	workers := min(opts.Workers, total)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				s.sendProgress(progress, fetchListingUpdate(job.index+1, total, job.folder))
				result.Results[job.index] = s.scanFolder(ctx, job.folder)
				results <- job
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for job := range results {
		done++
		res := &result.Results[job.index]

		if res.Error == nil {
			res.Error = s.persist(res)
		}

		switch {
		case res.Error != nil:
			result.Failed++
			s.logger.Warn("folder scan failed", "folder", res.Folder, "err", res.Error)
		case len(res.Tracks) == 0:
			result.Empty++
		default:
			result.Scanned++
		}
		s.sendProgress(progress, folderResultUpdate(done, total, *res))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.sendProgress(progress, scanCompleteUpdate(result))
	return result, nil
}

func (s *Scanner) scanFolder(ctx context.Context, folder string) FolderResult {
	res := FolderResult{Folder: folder, Artist: s.artists.Resolve(folder)}

	if fetcher, ok := s.loader.(Fetcher); ok {
		tracks, err := fetcher.Fetch(ctx, folder)
		if err != nil {
			res.Error = err
			return res
		}
		res.Tracks = tracks
		return res
	}

	res.Tracks = s.loader.Load(ctx, folder)
	return res
}

// persist runs on the collecting goroutine so store writes are never concurrent.
func (s *Scanner) persist(res *FolderResult) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Upsert(models.NewFolder(0, res.Folder, res.Artist, res.Tracks)); err != nil {
		return fmt.Errorf("failed to cache folder: %w", err)
	}
	return nil
}

// sendProgress sends a progress update through the channel without blocking.
func (s *Scanner) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
