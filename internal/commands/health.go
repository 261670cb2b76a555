package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/exitcode"
	"taskboard/internal/output"
)

const healthyStatus = "healthy"

func init() {
	Register(&HealthCmd{})
}

// HealthCmd implements the health command.
type HealthCmd struct{}

func (c *HealthCmd) Name() string      { return "health" }
func (c *HealthCmd) Aliases() []string { return nil }
func (c *HealthCmd) Synopsis() string  { return "Check the task server" }
func (c *HealthCmd) Usage() string     { return "taskboard health [common flags]" }
func (c *HealthCmd) NeedsAuth() bool   { return false }

func (c *HealthCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HealthCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	h, err := env.Backend.Health(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	output.FormatHealth(out, env.Config.BaseURL, h)
	if h.Status != healthyStatus {
		fmt.Fprintf(errOut, "error: server is %s\n", h.Status)
		return exitcode.BackendError
	}
	return exitcode.Success
}
