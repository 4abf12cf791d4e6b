// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

// setupCommand writes an example configuration file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write an example config.toml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path for the new config file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles login, status, and logout
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Run the interactive OAuth flow",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "show-dialog",
						Usage: "Force the consent screen even if previously approved",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current token state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear the token and its cache entry",
				Action: r.AuthLogout,
			},
		},
	}
}

// tracksCommand lists saved tracks
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List saved tracks",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Number of pages to fetch",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Fetch every page",
			},
		}, jsonFlags()...),
		Action: r.Tracks,
	}
}

// playlistsCommand lists the user's playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List playlists",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size",
				Value: 50,
			},
		}, jsonFlags()...),
		Action: r.Playlists,
	}
}

// searchCommand searches the catalog for tracks
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog for tracks",
		ArgsUsage: "<query>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 20,
			},
		}, jsonFlags()...),
		Action: r.Search,
	}
}

// playerCommand controls playback
func playerCommand(r *Runner) *cli.Command {
	deviceFlag := &cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Usage:   "Target device ID",
	}

	return &cli.Command{
		Name:  "player",
		Usage: "Inspect and control playback",
		Commands: []*cli.Command{
			{
				Name:   "devices",
				Usage:  "List available playback devices",
				Flags:  jsonFlags(),
				Action: r.Devices,
			},
			{
				Name:   "now",
				Usage:  "Show the current playback state",
				Flags:  jsonFlags(),
				Action: r.Now,
			},
			{
				Name:   "play",
				Usage:  "Start or resume playback",
				Flags:  []cli.Flag{deviceFlag},
				Action: r.Play,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Flags:  []cli.Flag{deviceFlag},
				Action: r.Pause,
			},
			{
				Name:   "next",
				Usage:  "Skip to the next track",
				Flags:  []cli.Flag{deviceFlag},
				Action: r.NextTrack,
			},
			{
				Name:   "prev",
				Usage:  "Skip to the previous track",
				Flags:  []cli.Flag{deviceFlag},
				Action: r.PreviousTrack,
			},
		},
	}
}

// historyCommand manages the local listening history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Local listening history",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Pull the remote recently-played feed into the local store",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of plays to fetch",
						Value: 50,
					},
				},
				Action: r.HistorySync,
			},
			{
				Name:  "list",
				Usage: "Show recorded plays, newest first",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of plays to show",
						Value: 50,
					},
				}, jsonFlags()...),
				Action: r.HistoryList,
			},
		},
	}
}

// tuiCommand launches the library browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse saved tracks interactively",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size",
				Value: 20,
			},
		},
		Action: r.TUI,
	}
}
