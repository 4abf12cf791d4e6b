package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Tired-Fox/rataify-sub001/internal/api"
	"github.com/Tired-Fox/rataify-sub001/internal/auth"
	"github.com/Tired-Fox/rataify-sub001/internal/shared"
	"github.com/Tired-Fox/rataify-sub001/internal/store"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	flow       auth.Flow
	client     *api.Client
	cache      *auth.Cache
	history    *store.Store
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Flow       auth.Flow
	Client     *api.Client
	Cache      *auth.Cache
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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

	return &Runner{
		config:     opts.Config,
		flow:       opts.Flow,
		client:     opts.Client,
		cache:      opts.Cache,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, tracksCommand, playlistsCommand, searchCommand, playerCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireFlow returns the configured flow or an actionable error when
// credentials were missing at startup.
func (r *Runner) requireFlow() (auth.Flow, error) {
	if r.flow == nil {
		return nil, fmt.Errorf("%w: set client_id in config.toml or the CLIENT_ID environment variable", shared.ErrMissingCredentials)
	}
	return r.flow, nil
}

// requireClient returns the API client or an actionable error.
func (r *Runner) requireClient() (*api.Client, error) {
	if r.client == nil {
		return nil, fmt.Errorf("%w: set client_id in config.toml or the CLIENT_ID environment variable", shared.ErrMissingCredentials)
	}
	return r.client, nil
}

// historyStore lazily opens the listening-history database.
func (r *Runner) historyStore() (*store.Store, error) {
	if r.history != nil {
		return r.history, nil
	}

	db, err := store.Open(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	db.Configure(r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	r.history = db
	return db, nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
