package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskboard/internal/board"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	priority    string
}

// SetOptions sets the description and priority flags (for testing).
func (c *AddCmd) SetOptions(description, priority string) {
	c.description = description
	c.priority = priority
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskboard add [--description <text>] [--priority high|medium|low] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.description, "description", "d", "", "")
	fs.StringVarP(&c.priority, "priority", "p", string(service.DefaultPriority), "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	prio := c.priority
	if prio == "" {
		prio = string(service.DefaultPriority)
	}
	priority, err := service.ParsePriority(prio)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// Creating does not need the current collection.
	b := board.New(env.Backend, env.Logger)
	if err := b.OpenCreate(); err != nil {
		return reportError(errOut, err)
	}
	if err := b.SetDraft(board.Draft{Title: title, Description: c.description, Priority: priority}); err != nil {
		return reportError(errOut, err)
	}
	task, err := b.Submit(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "created %d\n", task.ID)
	}
	return exitcode.Success
}
