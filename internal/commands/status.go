package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/exitcode"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return []string{"whoami"} }
func (c *StatusCmd) Synopsis() string  { return "Show session state" }
func (c *StatusCmd) Usage() string     { return "taskboard status [common flags]" }
func (c *StatusCmd) NeedsAuth() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.Session.Authenticated() {
		if u := env.Session.User(); u != nil {
			fmt.Fprintf(out, "logged in as %s\n", u.Username)
		} else {
			fmt.Fprintln(out, "logged in")
		}
	} else {
		fmt.Fprintln(out, "not logged in")
	}
	fmt.Fprintf(out, "server: %s\n", env.Config.BaseURL)
	return exitcode.Success
}
