package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"taskboard/internal/backend/rest"
	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

// testFactory creates a backend factory that returns the given FakeBackend
// and records the config it was called with.
func testFactory(svc *testutil.FakeBackend, got **config.Config) cli.BackendFactory {
	return func(cfg *config.Config, cred *session.Credential, logger *log.Logger) (service.Backend, error) {
		if got != nil {
			*got = cfg
		}
		return svc, nil
	}
}

// run dispatches args with a fresh config directory prepended as --config.
func run(t *testing.T, d *cli.Dispatcher, dir string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(config.EnvURL, "")
	if len(args) > 0 {
		args = append([]string{args[0], "--config", dir}, args[1:]...)
	}
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(), nil))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(), nil))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(), nil))

	code, stdout, stderr := run(t, d, t.TempDir(), "help")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_HelpFlag(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(), nil))

	code, stdout, _ := run(t, d, t.TempDir(), "add", "--help")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "taskboard add") {
		t.Errorf("expected usage of add, got %q", stdout)
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(), nil))

	code, stdout, _ := run(t, d, t.TempDir(), "version")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "taskboard 0.1.0\n" {
		t.Errorf("expected %q, got %q", "taskboard 0.1.0\n", stdout)
	}
}

func TestDispatcher_FlagErrors(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(), nil))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown long", []string{"version", "--unknown"}, "error: unknown flag: --unknown\n"},
		{"unknown short", []string{"version", "-z"}, "error: unknown flag: -z\n"},
		{"missing argument", []string{"add", "Title", "--priority"}, "error: flag needs an argument: --priority\n"},
		{"missing short argument", []string{"add", "Title", "-p"}, "error: flag needs an argument: -p\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, d, t.TempDir(), tt.args...)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeBackend()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	for _, name := range []string{"list", "add", "edit", "toggle", "rm", "board", "import"} {
		code, _, stderr := run(t, d, t.TempDir(), name)
		if code != exitcode.AuthError {
			t.Errorf("%s: expected exit code %d, got %d", name, exitcode.AuthError, code)
		}
		if stderr != "error: not logged in (run: taskboard login)\n" {
			t.Errorf("%s: unexpected stderr %q", name, stderr)
		}
	}
	if n := svc.Calls("ListTasks"); n != 0 {
		t.Errorf("ListTasks called %d times without a session", n)
	}
}

func TestDispatcher_RestoresStoredToken(t *testing.T) {
	svc := testutil.NewFakeBackend()
	svc.AddTask("Buy milk", service.PriorityMedium, false)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	dir := t.TempDir()
	token := `{"access_token":"abc","token_type":"Bearer"}`
	if err := os.WriteFile(filepath.Join(dir, config.TokenFile), []byte(token), 0600); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := run(t, d, dir, "list")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "Buy milk") {
		t.Errorf("expected task in output, got %q", stdout)
	}
}

func TestDispatcher_NoArgsRunsList(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvURL, "")
	svc := testutil.NewFakeBackend()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), nil, &stdout, &stderr)

	// list needs a session, so a bare invocation ends at the login hint.
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr.String(), "taskboard login") {
		t.Errorf("expected login hint, got %q", stderr.String())
	}
}

func TestDispatcher_CommonFlags(t *testing.T) {
	var got *config.Config
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(), &got))

	dir := t.TempDir()
	code, stdout, _ := run(t, d, dir, "status", "--url", "http://tasks.example:8080", "-q", "--debug")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got == nil {
		t.Fatal("factory was not called")
	}
	if got.BaseURL != "http://tasks.example:8080" {
		t.Errorf("BaseURL = %q, want override", got.BaseURL)
	}
	if !got.Quiet || !got.Debug {
		t.Errorf("Quiet = %v, Debug = %v, want both set", got.Quiet, got.Debug)
	}
	if got.Dir != dir {
		t.Errorf("Dir = %q, want %q", got.Dir, dir)
	}
	if !strings.Contains(stdout, "server: http://tasks.example:8080") {
		t.Errorf("status output = %q", stdout)
	}
}

func TestDispatcher_InvalidConfigFile(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(), nil))

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("base_url = ["), 0600); err != nil {
		t.Fatal(err)
	}
	code, _, stderr := run(t, d, dir, "status")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid config.toml") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// TestDispatcher_AgainstServer drives the REST client through the
// dispatcher: register, add, list, then logout.
func TestDispatcher_AgainstServer(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	factory := func(cfg *config.Config, cred *session.Credential, logger *log.Logger) (service.Backend, error) {
		c, err := rest.New(cfg.BaseURL,
			rest.WithHTTPClient(cred.Client(nil)),
			rest.WithTimeout(cfg.Timeout),
			rest.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	dir := t.TempDir()

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"register", "-u", "alice", "-e", "alice@example.com", "--password", "secret"}, "ok\n"},
		{[]string{"add", "Buy milk", "-p", "high"}, "created 1\n"},
		{[]string{"list"}, ""},
		{[]string{"logout"}, "ok\n"},
	}
	for _, step := range steps {
		args := append(step.args, "--url", api.URL())
		code, stdout, stderr := run(t, d, dir, args...)
		if code != exitcode.Success {
			t.Fatalf("%v: exit code %d, stderr %q", step.args, code, stderr)
		}
		if step.want != "" && stdout != step.want {
			t.Errorf("%v: stdout = %q, want %q", step.args, stdout, step.want)
		}
		if step.args[0] == "list" && !strings.Contains(stdout, "Buy milk") {
			t.Errorf("list output = %q", stdout)
		}
	}

	tasks := api.TasksFor("alice")
	if len(tasks) != 1 || tasks[0].Priority != service.PriorityHigh {
		t.Errorf("server tasks = %+v", tasks)
	}
	for _, h := range api.AuthHeaders() {
		if h != "" && !strings.HasPrefix(h, "Bearer tok-alice-") {
			t.Errorf("unexpected Authorization header %q", h)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, config.TokenFile)); !os.IsNotExist(err) {
		t.Errorf("token file still present after logout: %v", err)
	}
}
