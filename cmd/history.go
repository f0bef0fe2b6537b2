package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songdeck/internal/formatter"
	"github.com/desertthunder/songdeck/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History prints the most recent listens, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	listens, err := repositories.NewListenRepository(db).Recent(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	data, err := formatter.RenderHistory(listens, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
