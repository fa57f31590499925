package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, deps Deps) error {
	if deps.Catalog == nil {
		return errors.New("ui: catalog is required")
	}
	if deps.Gateway == nil {
		return errors.New("ui: image gateway is required")
	}
	m := newModel(ctx, deps)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run program")
	}
	if fm, ok := final.(model); ok && fm.crash.err != nil {
		return errors.Wrap(fm.crash.err, "session aborted after a malfunction")
	}
	return nil
}
