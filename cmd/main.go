package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Tired-Fox/rataify-sub001/internal/api"
	"github.com/Tired-Fox/rataify-sub001/internal/auth"
	"github.com/Tired-Fox/rataify-sub001/internal/shared"
	"github.com/urfave/cli/v3"
)

// defaultScopes are the permissions requested for interactive flows.
var defaultScopes = []string{
	"user-read-private",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-recently-played",
	"playlist-read-private",
	"user-library-read",
	"user-library-modify",
}

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	ctx := context.Background()
	cache := auth.NewCache(config.CacheDir())

	var flow auth.Flow
	var client *api.Client
	if config.Credentials.ClientID != "" {
		f, err := newFlow(ctx, config, cache)
		if err != nil {
			logger.Warnf("failed to initialize auth flow: %v", err)
		} else {
			flow = f
			client = api.NewClient(api.ClientOpts{
				Flow:      flow,
				RateLimit: config.API.RateLimit,
				Logger:    logger,
			})
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Flow:   flow,
		Client: client,
		Cache:  cache,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "rataify",
		Usage:    "Browse and control Spotify from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrReauthRequired) {
			logger.Error("authentication expired, run `rataify auth login`")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// newFlow constructs the authentication flow selected in the config.
func newFlow(ctx context.Context, config *shared.Config, cache *auth.Cache) (auth.Flow, error) {
	creds := config.Credentials
	conf := auth.NewConfig(creds.RedirectURI, defaultScopes...)

	switch creds.Flow {
	case "", "pkce":
		cred, err := auth.NewPKCECredential(creds.ClientID)
		if err != nil {
			return nil, err
		}
		return auth.NewPKCEFlow(cred, conf, cache), nil

	case "auth code":
		cred, err := auth.NewCredential(creds.ClientID, creds.ClientSecret)
		if err != nil {
			return nil, err
		}
		return auth.NewAuthCodeFlow(cred, conf, cache), nil

	case "client credentials":
		cred, err := auth.NewCredential(creds.ClientID, creds.ClientSecret)
		if err != nil {
			return nil, err
		}
		// Client credentials cannot carry user scopes.
		conf.Scopes = nil
		return auth.NewClientCredsFlow(ctx, cred, conf, cache)

	default:
		return nil, fmt.Errorf("%w: unknown flow %q", shared.ErrInvalidConfig, creds.Flow)
	}
}
