package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/audio"
	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/player"
	"github.com/desertthunder/songdeck/internal/repositories"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// SinkFactory builds the audio output used by the play and tui commands.
type SinkFactory func(logger *log.Logger, client *http.Client) player.Sink

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	loader     library.Loader
	newSink    SinkFactory
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Loader     library.Loader // replaces the songs server listing, mainly for tests
	NewSink    SinkFactory
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.NewSink == nil {
		opts.NewSink = defaultSink
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		loader:     opts.Loader,
		newSink:    opts.NewSink,
	}
}

func defaultSink(logger *log.Logger, client *http.Client) player.Sink {
	return audio.NewSink(audio.SinkOpts{HTTPClient: client, Logger: logger, Timeout: time.Minute})
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, foldersCommand, tracksCommand, playCommand, tuiCommand, scanCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// loadConfig reads the file named by --config. A missing file keeps the current configuration.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			r.logger.Debug("config file not found, using defaults", "path", path)
			return nil
		}
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}

	r.config = config
	r.configPath = path
	return nil
}

func (r *Runner) artists() *library.Artists {
	return library.NewArtists(r.config.ArtistTable(), r.config.Library.DefaultArtist)
}

func (r *Runner) httpLoader() *library.HTTPLoader {
	return library.NewHTTPLoader(library.HTTPLoaderOpts{
		BaseURL:    r.config.Library.BaseURL,
		Extension:  r.config.Library.Extension,
		HTTPClient: r.httpClient,
		Logger:     shared.WithLogger(r.logger, "component", "loader"),
	})
}

// listingLoader is the loader used for playback and listings: the injected one or the songs server.
func (r *Runner) listingLoader() library.Loader {
	if r.loader != nil {
		return r.loader
	}
	return r.httpLoader()
}

func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// serverFolders asks the songs server for its index, falling back to the configured folders when it is unreachable.
func (r *Runner) serverFolders(ctx context.Context) ([]models.FolderSummary, error) {
	folders, err := r.httpLoader().Folders(ctx)
	if err == nil {
		return folders, nil
	}

	configured := r.configuredFolders()
	if len(configured) == 0 {
		return nil, err
	}

	r.logger.Warn("folder index unavailable, using configured folders", "err", err)
	return configured, nil
}

func (r *Runner) configuredFolders() []models.FolderSummary {
	artists := r.artists()
	return lo.Map(r.config.FolderNames(), func(name string, _ int) models.FolderSummary {
		return models.FolderSummary{Name: name, Artist: artists.Resolve(name)}
	})
}

// newController wires a controller to a fresh sink and, when the database opens, to the play history.
//
// The returned cleanup closes whatever was opened.
func (r *Runner) newController(sink player.Sink, loader library.Loader, volume float64, autoplay time.Duration) (*player.Controller, func(), error) {
	controller, err := player.NewController(player.ControllerOpts{
		Sink:          sink,
		Loader:        loader,
		Artists:       r.artists(),
		BaseURL:       r.config.Library.BaseURL,
		Logger:        shared.WithLogger(r.logger, "component", "player"),
		InitialVolume: volume,
		AutoplayDelay: autoplay,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("play history disabled", "err", err)
		return controller, cleanup, nil
	}

	recorder := repositories.NewHistoryRecorder(repositories.NewListenRepository(db), shared.WithLogger(r.logger, "component", "history"))
	controller.Subscribe(recorder)
	return controller, func() { db.Close() }, nil
}

func requireArg(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	if !library.ValidName(value) {
		return fmt.Errorf("%w: %s %q", shared.ErrInvalidArgument, name, value)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled)
}
