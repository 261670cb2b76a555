package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/exitcode"
	"taskboard/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	username string
	password string
}

// SetCredentials sets the --username and --password flags (for testing).
func (c *LoginCmd) SetCredentials(username, password string) {
	c.username = username
	c.password = password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in to the task server" }
func (c *LoginCmd) Usage() string {
	return "taskboard login [--username <name>] [--password <password>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.username, "username", "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.Session.Authenticated() {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	p := newPrompter(env.In, errOut)
	username, password := c.username, c.password
	var err error
	if username == "" {
		if username, err = p.line("Username"); err != nil || username == "" {
			fmt.Fprintln(errOut, "error: username required")
			return exitcode.UserError
		}
	}
	if password == "" {
		if password, err = p.secret("Password"); err != nil || password == "" {
			fmt.Fprintln(errOut, "error: password required")
			return exitcode.UserError
		}
	}

	if err := env.Session.Login(ctx, username, password); err != nil {
		return reportAuthError(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// reportAuthError prints a failed login or registration.
// Server messages are shown as the server wrote them.
func reportAuthError(errOut io.Writer, err error) int {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		fmt.Fprintf(errOut, "error: %s\n", authErr.Message)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.AuthError
}
