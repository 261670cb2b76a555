// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a session.
	// The dispatcher refuses to run such commands when logged out.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Env is everything a command may use during one invocation.
type Env struct {
	Config  *config.Config
	Backend service.Backend
	Session *session.Manager
	Logger  *log.Logger

	// In is read for prompts and confirmations.
	In io.Reader

	// Import opens the Google Tasks source. Nil uses the real account.
	Import ImportFactory
}
