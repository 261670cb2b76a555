package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"taskboard/internal/board"
	"taskboard/internal/exitcode"
	"taskboard/internal/ui"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd runs the interactive dashboard.
type BoardCmd struct{}

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return []string{"ui"} }
func (c *BoardCmd) Synopsis() string  { return "Open the interactive dashboard" }
func (c *BoardCmd) Usage() string     { return "taskboard board [common flags]" }
func (c *BoardCmd) NeedsAuth() bool   { return true }

func (c *BoardCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *BoardCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if !ui.IsTTY(out) {
		fmt.Fprintln(errOut, "error: board requires a terminal (use: taskboard list)")
		return exitcode.UserError
	}

	// Diagnostics would corrupt the alternate screen.
	if err := env.Config.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	logFile, err := os.OpenFile(env.Config.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to open log file: %v\n", err)
		return exitcode.UserError
	}
	defer logFile.Close()
	env.Logger.SetOutput(logFile)
	defer env.Logger.SetOutput(errOut)

	b := board.New(env.Backend, env.Logger)
	loggedOut, err := ui.Run(ctx, b, env.Session, out)
	if err != nil {
		env.Logger.Error("dashboard failed", "err", err)
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if loggedOut && !env.Config.Quiet {
		fmt.Fprintln(out, "logged out")
	}
	return exitcode.Success
}
