package main

import (
	"context"

	"github.com/Tired-Fox/rataify-sub001/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the embedded example configuration to disk.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Infof("wrote config to %s", path)
	r.writePlainln("✓ Created %s", path)
	return r.writePlainln("Fill in your Spotify application credentials, then run `rataify auth login`.")
}
