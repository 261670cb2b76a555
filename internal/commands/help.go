package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"taskboard/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. It lists the commands of Registry,
// or DefaultRegistry when nil.
type HelpCmd struct {
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskboard help [command]" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}

	if len(args) > 1 {
		fmt.Fprintln(errOut, "error: too many arguments")
		return exitcode.UserError
	}
	if len(args) == 1 {
		cmd, ok := reg.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "Usage:\n  %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
		return exitcode.Success
	}

	fmt.Fprint(out, helpHeader)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	for _, cmd := range reg.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", name, cmd.Synopsis())
	}
	tw.Flush()
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpHeader = `Usage:
  taskboard                       List all tasks
  taskboard <command> [flags] [args]
  taskboard help <command>        Show a command's usage

Commands:
`

const helpFooter = `
Filters:
  --status    all, pending, completed
  --priority  all, high, medium, low

Common flags:
  --config <dir>   Override config directory
  --url <url>      Task server base URL
  -q, --quiet      Suppress informational output
  --debug          Print debug logs to stderr
`
