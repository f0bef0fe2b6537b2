// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/songdeck/internal/tasks"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: txt, csv, markdown or json",
		Value:   "txt",
	}
}

// serveCommand publishes a songs directory over HTTP
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a songs directory with browsable listings",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Songs directory (overrides server.dir)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// foldersCommand lists the playlist folders
func foldersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "folders",
		Aliases: []string{"ls"},
		Usage:   "List playlist folders published by the songs server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Read folders from the scan cache instead of the server",
			},
		},
		Action: r.Folders,
	}
}

// tracksCommand prints one folder's songs
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List the songs of a folder",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "folder"},
		},
		Flags: []cli.Flag{
			configFlag(),
			formatFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Prefer the scan cache, falling back to the server",
			},
		},
		Action: r.Tracks,
	}
}

// playCommand plays a folder without the interactive UI
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a folder headlessly until it finishes or ctrl-c",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "folder"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "Start at this track (1-based)",
				Value:   1,
			},
			&cli.BoolFlag{
				Name:    "shuffle",
				Aliases: []string{"s"},
				Usage:   "Start at a random track",
			},
			&cli.BoolFlag{
				Name:  "loop",
				Usage: "Wrap to the first track instead of stopping after the last",
			},
			&cli.FloatFlag{
				Name:  "volume",
				Usage: "Initial volume in [0, 1] (overrides player.initial_volume)",
				Value: -1,
			},
		},
		Action: r.Play,
	}
}

// tuiCommand returns the top-level TUI command for interactive playback.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the UI owns the terminal",
				Value: "./tmp/songdeck-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// scanCommand caches every folder listing in the database
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Fetch and cache folder listings",
		Arguments: []cli.Argument{
			&cli.StringArgs{Name: "folders", Min: 0, Max: -1},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent listing requests",
				Value:   tasks.DefaultWorkers,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Listing requests per second",
				Value: tasks.DefaultRateLimit,
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Scan server.dir on disk instead of the songs server",
			},
		},
		Action: r.Scan,
	}
}

// historyCommand prints recent listens
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently played songs",
		Flags: []cli.Flag{
			configFlag(),
			formatFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of listens (0 for all)",
				Value:   20,
			},
		},
		Action: r.History,
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config file populated with defaults",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
