package library

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

var _ Loader = (*HTTPLoader)(nil)

// HTTPLoader lists folders published by a songs server.
type HTTPLoader struct {
	baseURL    string
	ext        string
	httpClient *http.Client
	logger     *log.Logger
}

// HTTPLoaderOpts contains configuration options for creating an [HTTPLoader].
type HTTPLoaderOpts struct {
	BaseURL    string
	Extension  string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewHTTPLoader creates an [HTTPLoader], defaulting the extension, client and logger.
func NewHTTPLoader(opts HTTPLoaderOpts) *HTTPLoader {
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &HTTPLoader{
		baseURL:    opts.BaseURL,
		ext:        opts.Extension,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// BaseURL returns the server the loader lists from.
func (l *HTTPLoader) BaseURL() string { return l.baseURL }

// Load fetches the listing for folder. Any failure yields an empty slice.
func (l *HTTPLoader) Load(ctx context.Context, folder string) []string {
	tracks, err := l.Fetch(ctx, folder)
	if err != nil {
		l.logger.Error("error loading songs", "folder", folder, "err", err)
		return []string{}
	}
	return tracks
}

// Fetch is Load with the failure reported instead of swallowed.
func (l *HTTPLoader) Fetch(ctx context.Context, folder string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ListingURL(l.baseURL, folder), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrListingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", shared.ErrListingFailed, req.URL.Path, resp.StatusCode)
	}

	tracks, err := ParseListing(resp.Body, l.ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrListingFailed, err)
	}

	return tracks, nil
}

// Folders asks the songs server for its folder index at {base}/api/folders.
func (l *HTTPLoader) Folders(ctx context.Context) ([]models.FolderSummary, error) {
	url := strings.TrimRight(l.baseURL, "/") + "/api/folders"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", shared.ErrServiceUnavailable, req.URL.Path, resp.StatusCode)
	}

	var folders []models.FolderSummary
	if err := json.NewDecoder(resp.Body).Decode(&folders); err != nil {
		return nil, fmt.Errorf("failed to decode folder index: %w", err)
	}
	return folders, nil
}
