package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskboard/internal/board"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

// reportError prints err and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, board.ErrTitleRequired),
		errors.Is(err, board.ErrInvalidPriority),
		errors.Is(err, board.ErrTaskNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintln(errOut, "error: session expired or invalid (run: taskboard login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(errOut, "error: not found")
		return exitcode.UserError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// loadBoard creates a board and fetches the collection.
func loadBoard(ctx context.Context, env *Env) (*board.Board, error) {
	b := board.New(env.Backend, env.Logger)
	if err := b.FetchAll(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// findTask fetches the board and looks up id.
func findTask(ctx context.Context, env *Env, id int64) (*board.Board, service.Task, error) {
	b, err := loadBoard(ctx, env)
	if err != nil {
		return nil, service.Task{}, err
	}
	task, ok := b.Find(id)
	if !ok {
		return nil, service.Task{}, fmt.Errorf("%w: %d", board.ErrTaskNotFound, id)
	}
	return b, task, nil
}
