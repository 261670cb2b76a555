package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskboard/internal/backend/googletasks"
	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

// ImportSource lists the tasks to import.
type ImportSource interface {
	ListAll(ctx context.Context) ([]googletasks.Item, error)
}

// ImportFactory opens the import source for a config.
type ImportFactory func(ctx context.Context, cfg *config.Config) (ImportSource, error)

// GoogleImport opens the linked Google Tasks account.
func GoogleImport(ctx context.Context, cfg *config.Config) (ImportSource, error) {
	return googletasks.New(ctx, cfg)
}

func init() {
	Register(&ImportCmd{})
}

// ImportCmd copies Google Tasks into the board.
type ImportCmd struct {
	dryRun   bool
	priority string
}

// SetOptions sets the --dry-run and --priority flags (for testing).
func (c *ImportCmd) SetOptions(dryRun bool, priority string) {
	c.dryRun = dryRun
	c.priority = priority
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Import tasks from Google Tasks" }
func (c *ImportCmd) Usage() string {
	return "taskboard import [--dry-run] [--priority high|medium|low]"
}
func (c *ImportCmd) NeedsAuth() bool { return true }

func (c *ImportCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
	fs.StringVarP(&c.priority, "priority", "p", string(service.DefaultPriority), "")
}

func (c *ImportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	prio := c.priority
	if prio == "" {
		prio = string(service.DefaultPriority)
	}
	priority, err := service.ParsePriority(prio)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	open := env.Import
	if open == nil {
		open = GoogleImport
	}
	src, err := open(ctx, env.Config)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	items, err := src.ListAll(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: google tasks: %v\n", err)
		return exitcode.BackendError
	}

	b, err := loadBoard(ctx, env)
	if err != nil {
		return reportError(errOut, err)
	}

	seen := make(map[string]bool)
	for _, t := range b.Tasks() {
		seen[titleKey(t.Title)] = true
	}

	imported, skipped := 0, 0
	for _, item := range items {
		key := titleKey(item.Title)
		if key == "" || seen[key] {
			skipped++
			continue
		}
		seen[key] = true

		if c.dryRun {
			fmt.Fprintf(out, "would import: %s\n", strings.TrimSpace(item.Title))
			imported++
			continue
		}

		if err := importItem(ctx, b, item, priority); err != nil {
			env.Logger.Error("import failed", "title", item.Title, "list", item.ListTitle, "err", err)
			fmt.Fprintf(errOut, "imported %d, skipped %d\n", imported, skipped)
			return reportError(errOut, err)
		}
		imported++
	}

	switch {
	case c.dryRun:
		fmt.Fprintf(out, "would import %d, skipped %d\n", imported, skipped)
	case !env.Config.Quiet:
		fmt.Fprintf(out, "imported %d, skipped %d\n", imported, skipped)
	}
	return exitcode.Success
}

func importItem(ctx context.Context, b *board.Board, item googletasks.Item, priority service.Priority) error {
	if err := b.OpenCreate(); err != nil {
		return err
	}
	draft := board.Draft{
		Title:       strings.TrimSpace(item.Title),
		Description: item.Notes,
		Priority:    priority,
	}
	if err := b.SetDraft(draft); err != nil {
		b.Cancel()
		return err
	}
	task, err := b.Submit(ctx)
	if err != nil {
		b.Cancel()
		return err
	}
	if item.Completed {
		if _, err := b.Toggle(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
