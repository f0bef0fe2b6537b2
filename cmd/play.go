package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/player"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// headlessSink ends the play command after the last track instead of wrapping to the first.
type headlessSink struct {
	player.Sink

	mu         sync.Mutex
	loop       bool
	controller *player.Controller
	finished   chan struct{}
	once       sync.Once
}

func newHeadlessSink(sink player.Sink, loop bool) *headlessSink {
	return &headlessSink{Sink: sink, loop: loop, finished: make(chan struct{})}
}

func (h *headlessSink) attach(c *player.Controller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.controller = c
}

func (h *headlessSink) OnEnded(fn func()) {
	h.Sink.OnEnded(func() {
		h.mu.Lock()
		c := h.controller
		h.mu.Unlock()

		if !h.loop && c != nil && c.Index() >= len(c.Tracks())-1 {
			h.once.Do(func() { close(h.finished) })
			return
		}
		fn()
	})
}

// nowPlayingPrinter echoes track changes to the command output.
type nowPlayingPrinter struct {
	r     *Runner
	total int
}

func (p *nowPlayingPrinter) OnEvent(e player.Event) {
	if e.Kind != player.NowPlaying {
		return
	}
	p.r.writePlain("▶ [%d/%d] %s  %s\n", e.Index+1, p.total, e.Title, e.Subtitle())
}

// Play selects a folder and plays it without the UI until the last track ends or the context is cancelled.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	folder := cmd.StringArg("folder")
	if err := requireArg("folder", folder); err != nil {
		return err
	}

	volume := r.config.Player.InitialVolume
	if v := cmd.Float("volume"); v >= 0 {
		if v > 1 {
			return fmt.Errorf("%w: --volume must be within [0, 1]", shared.ErrInvalidFlag)
		}
		volume = v
	}

	loader := r.listingLoader()
	tracks, err := r.fetchTracks(ctx, loader, folder)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNoTracks, folder)
	}

	start := cmd.Int("index") - 1
	if start < 0 || start >= len(tracks) {
		return fmt.Errorf("%w: --index %d (folder has %d songs)", shared.ErrIndexOutOfRange, start+1, len(tracks))
	}

	output := r.newSink(r.logger, r.httpClient)
	if closer, ok := output.(io.Closer); ok {
		defer closer.Close()
	}
	sink := newHeadlessSink(output, cmd.Bool("loop"))

	// the listing was already fetched above, so the controller replays it instead of asking the server again
	listing := library.LoaderFunc(func(context.Context, string) []string { return tracks })
	controller, cleanup, err := r.newController(sink, listing, volume, 0)
	if err != nil {
		return err
	}
	defer cleanup()
	sink.attach(controller)
	controller.Subscribe(&nowPlayingPrinter{r: r, total: len(tracks)})

	if err := controller.SelectFolderAt(ctx, folder, start, cmd.Bool("shuffle")); err != nil {
		return err
	}

	select {
	case <-sink.finished:
		r.logger.Info("finished playing", "folder", folder)
		return nil
	case <-ctx.Done():
		sink.Pause()
		return ctx.Err()
	}
}
