package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/exitcode"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed, or reopen it" }
func (c *ToggleCmd) Usage() string     { return "taskboard toggle <id>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, task, err := findTask(ctx, env, id)
	if err != nil {
		return reportError(errOut, err)
	}
	updated, err := b.Toggle(ctx, task)
	if err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		if updated.Completed {
			fmt.Fprintf(out, "completed %d\n", updated.ID)
		} else {
			fmt.Fprintf(out, "reopened %d\n", updated.ID)
		}
	}
	return exitcode.Success
}
