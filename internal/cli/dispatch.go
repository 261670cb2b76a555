package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// BackendFactory creates the task server client for one invocation.
// Requests made through it must carry cred.
type BackendFactory func(cfg *config.Config, cred *session.Credential, logger *log.Logger) (service.Backend, error)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInput sets the reader used for prompts. Defaults to no input.
func WithInput(r io.Reader) Option {
	return func(d *Dispatcher) { d.in = r }
}

// WithImportFactory sets the Google Tasks source used by import.
func WithImportFactory(f commands.ImportFactory) Option {
	return func(d *Dispatcher) { d.importFactory = f }
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry      *commands.Registry
	factory       BackendFactory
	in            io.Reader
	importFactory commands.ImportFactory
}

// NewDispatcher creates a new dispatcher with the given registry and backend factory.
func NewDispatcher(registry *commands.Registry, factory BackendFactory, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		factory:  factory,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	baseURL   string
	quiet     bool
	debug     bool
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves
	fs.SortFlags = false

	var common commonFlags
	fs.StringVar(&common.configDir, "config", "", "")
	fs.StringVar(&common.baseURL, "url", "", "")
	fs.BoolVarP(&common.quiet, "quiet", "q", false, "")
	fs.BoolVar(&common.debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "Usage:\n  %s\n", cmd.Usage())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Anything after "--" that looks like a flag is still refused.
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	env, code := d.newEnv(common, errOut)
	if code != exitcode.Success {
		return code
	}

	if cmd.NeedsAuth() && !env.Session.Authenticated() {
		fmt.Fprintln(errOut, "error: not logged in (run: taskboard login)")
		return exitcode.AuthError
	}

	env.Logger.Debug("dispatch", "command", cmd.Name(), "args", len(positionalArgs))
	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// newEnv loads the config, builds the logger and backend, and restores the
// stored session.
func (d *Dispatcher) newEnv(common commonFlags, errOut io.Writer) (*commands.Env, int) {
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	if common.baseURL != "" {
		cfg.BaseURL = common.baseURL
	}

	opts, err := logging.FromSettings(cfg.LogLevel, cfg.LogFormat, cfg.Debug)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}
	logger := logging.New(errOut, opts)

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return nil, exitcode.BackendError
	}
	cred := session.NewCredential()
	backend, err := d.factory(cfg, cred, logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}

	mgr := session.NewManager(backend, session.NewFileStore(cfg.TokenPath()), cred, logger)
	mgr.Init()

	return &commands.Env{
		Config:  cfg,
		Backend: backend,
		Session: mgr,
		Logger:  logger,
		In:      d.in,
		Import:  d.importFactory,
	}, exitcode.Success
}

// flagError rewrites pflag parse errors into the CLI's messages.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown flag: "):
		return msg
	case strings.HasPrefix(msg, "unknown shorthand flag: "):
		// unknown shorthand flag: 'z' in -z
		if i := strings.LastIndex(msg, " in "); i >= 0 {
			return "unknown flag: " + msg[i+len(" in "):]
		}
		return msg
	case strings.HasPrefix(msg, "flag needs an argument: "):
		// flag needs an argument: 'p' in -p
		if i := strings.LastIndex(msg, " in "); i >= 0 {
			return "flag needs an argument: " + msg[i+len(" in "):]
		}
		return msg
	}
	return msg
}
