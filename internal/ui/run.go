package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/board"
	"taskboard/internal/session"
)

// Run shows the dashboard until the user quits. It reports whether the user
// logged out from the dashboard.
func Run(ctx context.Context, b *board.Board, sess *session.Manager, out io.Writer, opts ...Option) (bool, error) {
	if !IsTTY(out) {
		return false, fmt.Errorf("board requires a terminal")
	}

	model := NewModel(ctx, b, sess, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	finalModel, err := program.Run()
	if err != nil {
		return false, err
	}
	if m, ok := finalModel.(*Model); ok {
		return m.LoggedOut(), nil
	}
	return false, nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
