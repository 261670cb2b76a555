package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/board"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskboard` (no args) and `taskboard list`.
type ListCmd struct {
	status   string
	priority string
	long     bool
}

// SetFilters sets the filter flags (for testing).
func (c *ListCmd) SetFilters(status, priority string) {
	c.status = status
	c.priority = priority
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskboard list [--status all|pending|completed] [--priority all|high|medium|low] [--long]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.status, "status", "s", "all", "")
	fs.StringVarP(&c.priority, "priority", "p", "all", "")
	fs.BoolVarP(&c.long, "long", "l", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	status, err := board.ParseStatusFilter(c.status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	priority, err := board.ParsePriorityFilter(c.priority)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, err := loadBoard(ctx, env)
	if err != nil {
		return reportError(errOut, err)
	}
	b.SetStatusFilter(status)
	b.SetPriorityFilter(priority)

	tasks := b.Visible()
	if len(tasks) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for _, task := range tasks {
		if c.long {
			output.FormatTaskLong(out, task)
		} else {
			output.FormatTask(out, task)
		}
	}
	return exitcode.Success
}
