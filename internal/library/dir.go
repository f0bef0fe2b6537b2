package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/samber/lo"
)

var _ Loader = (*DirLoader)(nil)

// DirLoader lists folders of a local songs directory: root/{folder}/{track}.
type DirLoader struct {
	root   string
	ext    string
	logger *log.Logger
}

// NewDirLoader creates a [DirLoader] rooted at root.
func NewDirLoader(root, ext string, logger *log.Logger) *DirLoader {
	if ext == "" {
		ext = DefaultExtension
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &DirLoader{root: root, ext: ext, logger: logger}
}

// Root returns the songs directory.
func (d *DirLoader) Root() string { return d.root }

// Extension returns the audio extension tracks are filtered by.
func (d *DirLoader) Extension() string { return d.ext }

// Load lists the audio files of folder sorted by name. Missing or invalid folders yield an empty slice.
func (d *DirLoader) Load(ctx context.Context, folder string) []string {
	tracks, err := d.Tracks(folder)
	if err != nil {
		d.logger.Warn("error listing folder", "folder", folder, "err", err)
		return []string{}
	}
	return tracks
}

// Fetch is Load with errors reported.
func (d *DirLoader) Fetch(ctx context.Context, folder string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Tracks(folder)
}

// Tracks lists the audio files of folder sorted by name.
func (d *DirLoader) Tracks(folder string) ([]string, error) {
	files, err := d.Files(folder)
	if err != nil {
		return nil, err
	}
	return lo.Filter(files, func(name string, _ int) bool { return HasExtension(name, d.ext) }), nil
}

// Files lists every regular, non-hidden file of folder sorted by name.
func (d *DirLoader) Files(folder string) ([]string, error) {
	if !ValidName(folder) {
		return nil, fmt.Errorf("%w: %q", shared.ErrFolderNotFound, folder)
	}

	entries, err := os.ReadDir(filepath.Join(d.root, folder))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrFolderNotFound, folder)
		}
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	files := []string{}
	for _, entry := range entries {
		if entry.Type().IsRegular() && ValidName(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// Folders lists the folder names under root, sorted by name. Hidden directories are skipped.
func (d *DirLoader) Folders() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read songs directory: %w", err)
	}

	folders := []string{}
	for _, entry := range entries {
		if entry.IsDir() && ValidName(entry.Name()) {
			folders = append(folders, entry.Name())
		}
	}
	return folders, nil
}

// Path returns the filesystem path of track in folder, or an error when either name is not a plain file name.
func (d *DirLoader) Path(folder, track string) (string, error) {
	if !ValidName(folder) || !ValidName(track) {
		return "", fmt.Errorf("%w: %s/%s", shared.ErrTrackNotFound, folder, track)
	}
	return filepath.Join(d.root, folder, track), nil
}
