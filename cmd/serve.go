package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/server"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve publishes server.dir under /songs/ until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	cfg := r.config.Server
	if dir := cmd.String("dir"); dir != "" {
		cfg.Dir = dir
	}
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return fmt.Errorf("%w: songs directory %s: %v", shared.ErrInvalidConfig, cfg.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", shared.ErrInvalidConfig, cfg.Dir)
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	dir := library.NewDirLoader(cfg.Dir, r.config.Library.Extension, logger)
	srv := server.New(cfg.Addr(), server.NewRouter(dir, r.artists(), logger), logger)

	r.logger.Info("publishing songs directory", "dir", cfg.Dir)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
