package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/exitcode"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command. A successful
// registration logs the new account in.
type RegisterCmd struct {
	username string
	email    string
	password string
}

// SetAccount sets the --username, --email and --password flags (for testing).
func (c *RegisterCmd) SetAccount(username, email, password string) {
	c.username = username
	c.email = email
	c.password = password
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string {
	return "taskboard register --username <name> --email <email> [--password <password>]"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.username, "username", "u", "", "")
	fs.StringVarP(&c.email, "email", "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	p := newPrompter(env.In, errOut)
	username, email, password := c.username, c.email, c.password
	var err error
	if username == "" {
		if username, err = p.line("Username"); err != nil || username == "" {
			fmt.Fprintln(errOut, "error: username required")
			return exitcode.UserError
		}
	}
	if email == "" {
		if email, err = p.line("Email"); err != nil || email == "" {
			fmt.Fprintln(errOut, "error: email required")
			return exitcode.UserError
		}
	}
	if password == "" {
		if password, err = p.secret("Password"); err != nil || password == "" {
			fmt.Fprintln(errOut, "error: password required")
			return exitcode.UserError
		}
	}

	if err := env.Session.Register(ctx, username, email, password); err != nil {
		return reportAuthError(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
