package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/songdeck/internal/formatter"
	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/repositories"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/desertthunder/songdeck/internal/tasks"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// Folders lists the folders published by the songs server, or those in the scan cache with --cached.
func (r *Runner) Folders(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	var (
		folders []models.FolderSummary
		err     error
	)
	if cmd.Bool("cached") {
		folders, err = r.cachedFolders()
	} else {
		folders, err = r.serverFolders(ctx)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(folders, true)
	}

	if len(folders) == 0 {
		return r.writePlain("No folders found\n")
	}

	r.writePlainHeader(fmt.Sprintf("Folders (%d)", len(folders)))
	for _, f := range folders {
		r.writePlain("%-28s %-24s %3d songs\n", f.Name, f.Artist, f.Tracks)
	}
	return nil
}

func (r *Runner) cachedFolders() ([]models.FolderSummary, error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	cached, err := repositories.NewFolderRepository(db).List(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached folders: %w", err)
	}
	return lo.Map(cached, func(f *models.Folder, _ int) models.FolderSummary { return f.Summary() }), nil
}

// Tracks prints the songs of one folder in the requested format.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	folder := cmd.StringArg("folder")
	if err := requireArg("folder", folder); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var loader library.Loader = r.listingLoader()
	if cmd.Bool("cached") {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()
		loader = tasks.NewCachedLoader(repositories.NewFolderRepository(db), loader, r.logger)
	}

	tracks, err := r.fetchTracks(ctx, loader, folder)
	if err != nil {
		return err
	}

	playlist := &models.Playlist{Folder: folder, Artist: r.artists().Resolve(folder), Tracks: tracks}
	data, err := formatter.RenderPlaylist(playlist, format)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(data, path); err != nil {
			return err
		}
		r.logger.Info("wrote track list", "folder", folder, "path", path, "tracks", len(tracks))
		return nil
	}
	return r.writeBytes(data)
}

// fetchTracks surfaces listing errors when the loader can report them.
func (r *Runner) fetchTracks(ctx context.Context, loader library.Loader, folder string) ([]string, error) {
	if fetcher, ok := loader.(tasks.Fetcher); ok {
		tracks, err := fetcher.Fetch(ctx, folder)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, err)
		}
		return tracks, nil
	}
	return loader.Load(ctx, folder), nil
}

// Scan fetches every folder listing and stores it in the library cache.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	folders := cmd.StringArgs("folders")
	for _, f := range folders {
		if err := requireArg("folder", f); err != nil {
			return err
		}
	}

	var loader library.Loader = r.listingLoader()
	if cmd.Bool("local") {
		dir := library.NewDirLoader(r.config.Server.Dir, r.config.Library.Extension, r.logger)
		loader = dir
		if len(folders) == 0 {
			names, err := dir.Folders()
			if err != nil {
				return err
			}
			folders = names
		}
	}

	if len(folders) == 0 {
		summaries, err := r.serverFolders(ctx)
		if err != nil {
			return err
		}
		folders = lo.Map(summaries, func(f models.FolderSummary, _ int) string { return f.Name })
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	scanner := tasks.NewScanner(loader, r.artists(), repositories.NewFolderRepository(db), shared.WithLogger(r.logger, "component", "scan"))

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase == tasks.FetchListing {
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := scanner.Scan(ctx, folders, progress, tasks.ScanOpts{
		Workers:   cmd.Int("workers"),
		RateLimit: cmd.Float("rate"),
	})
	close(progress)
	<-done

	if err != nil {
		if result != nil && isCancel(err) {
			r.logger.Warn("scan interrupted", "scanned", result.Scanned, "total", result.Total)
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	if result.Failed > 0 && result.Failed == result.Total {
		return errors.Join(lo.FilterMap(result.Results, func(res tasks.FolderResult, _ int) (error, bool) {
			return res.Error, res.Error != nil
		})...)
	}
	return nil
}
