package main

import (
	"context"

	"github.com/Tired-Fox/rataify-sub001/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive library browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, client, int(cmd.Int("limit")))
	program := tea.NewProgram(model, tea.WithAltScreen())

	_, err = program.Run()
	return err
}
