package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskboard rm [--yes] <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.yes, "yes", "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, _, err := findTask(ctx, env, id)
	if err != nil {
		return reportError(errOut, err)
	}

	confirm := func(task service.Task) bool {
		if c.yes {
			return true
		}
		return newPrompter(env.In, errOut).confirm(fmt.Sprintf("delete task %d %q?", task.ID, task.Title))
	}
	deleted, err := b.Delete(ctx, id, confirm)
	if err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		if deleted {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "aborted")
		}
	}
	return exitcode.Success
}
