package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/desertthunder/songdeck/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	folders, err := r.serverFolders(ctx)
	if err != nil {
		return err
	}

	sink := r.newSink(r.logger, r.httpClient)
	if closer, ok := sink.(io.Closer); ok {
		defer closer.Close()
	}

	prefs := r.config.Player
	controller, cleanup, err := r.newController(sink, r.listingLoader(), prefs.InitialVolume, prefs.AutoplayDelay())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(ctx, controller, folders, ui.ModelOpts{
		SeekStep:   prefs.SeekStepDuration(),
		VolumeStep: prefs.VolumeStep,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
