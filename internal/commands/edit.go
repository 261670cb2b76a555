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
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the given fields change.
type EditCmd struct {
	fs *pflag.FlagSet

	title       string
	description string
	priority    string

	// set by tests, in place of fs.Changed
	titleSet, descriptionSet, prioritySet bool
}

// SetTitle sets the --title flag (for testing).
func (c *EditCmd) SetTitle(s string) { c.title, c.titleSet = s, true }

// SetDescription sets the --description flag (for testing).
func (c *EditCmd) SetDescription(s string) { c.description, c.descriptionSet = s, true }

// SetPriority sets the --priority flag (for testing).
func (c *EditCmd) SetPriority(s string) { c.priority, c.prioritySet = s, true }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "taskboard edit <id> [--title <text>] [--description <text>] [--priority high|medium|low]"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	c.titleSet, c.descriptionSet, c.prioritySet = false, false, false
	fs.StringVarP(&c.title, "title", "t", "", "")
	fs.StringVarP(&c.description, "description", "d", "", "")
	fs.StringVarP(&c.priority, "priority", "p", "", "")
}

func (c *EditCmd) changed(name string, set bool) bool {
	return set || (c.fs != nil && c.fs.Changed(name))
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	titleSet := c.changed("title", c.titleSet)
	descSet := c.changed("description", c.descriptionSet)
	prioSet := c.changed("priority", c.prioritySet)
	if !titleSet && !descSet && !prioSet {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --description or --priority)")
		return exitcode.UserError
	}

	var priority service.Priority
	if prioSet {
		priority, err = service.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	b, task, err := findTask(ctx, env, id)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := b.OpenEdit(task); err != nil {
		return reportError(errOut, err)
	}

	draft := b.Draft()
	if titleSet {
		draft.Title = c.title
	}
	if descSet {
		draft.Description = c.description
	}
	if prioSet {
		draft.Priority = priority
	}
	if err := b.SetDraft(draft); err != nil {
		return reportError(errOut, err)
	}
	if _, err := b.Submit(ctx); err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
