// Package bootstrap registers the reflective MCP server with locally
// installed agent CLIs.
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	DefaultServerName = "reflective"
	DefaultServeCmd   = "reflective-mcp serve"
)

// Options control CLI bootstrap behavior.
type Options struct {
	ConfigPath string
	Scope      string
	ServerName string
	ServeCmd   string
	// HTTPURL registers the streamable HTTP endpoint instead of a stdio
	// command when set.
	HTTPURL  string
	AuditDir string
	All      bool
	Codex    bool
	Claude   bool
	Gemini   bool
	DryRun   bool

	// LookPath overrides exec.LookPath.
	LookPath func(string) (string, error)
}

// Command captures an executable command.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string { return c.Name + " " + strings.Join(c.Args, " ") }

// Runner executes system commands.
type Runner interface {
	Run(name string, args ...string) error
}

// OSRunner executes commands via os/exec.
type OSRunner struct{}

func (OSRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// client describes how one agent CLI registers MCP servers.
type client struct {
	name     string
	selected func(Options) bool
	remove   func(o Options) []string
	stdio    func(o Options, launch []string) []string
	http     func(o Options) []string
}

var clients = []client{
	{
		name:     "codex",
		selected: func(o Options) bool { return o.All || o.Codex },
		remove:   func(o Options) []string { return []string{"mcp", "remove", o.ServerName} },
		stdio: func(o Options, launch []string) []string {
			return append([]string{"mcp", "add", o.ServerName, "--"}, launch...)
		},
		http: func(o Options) []string { return []string{"mcp", "add", o.ServerName, "--url", o.HTTPURL} },
	},
	{
		name:     "claude",
		selected: func(o Options) bool { return o.All || o.Claude },
		remove:   func(o Options) []string { return []string{"mcp", "remove", "-s", o.Scope, o.ServerName} },
		stdio: func(o Options, launch []string) []string {
			return append([]string{"mcp", "add", "-s", o.Scope, o.ServerName, "--"}, launch...)
		},
		http: func(o Options) []string {
			return []string{"mcp", "add", "-s", o.Scope, "--transport", "http", o.ServerName, o.HTTPURL}
		},
	},
	{
		name:     "gemini",
		selected: func(o Options) bool { return o.All || o.Gemini },
		remove:   func(o Options) []string { return []string{"mcp", "remove", "-s", o.Scope, o.ServerName} },
		stdio: func(o Options, launch []string) []string {
			return append([]string{"mcp", "add", "-s", o.Scope, o.ServerName}, launch...)
		},
		http: func(o Options) []string {
			return []string{"mcp", "add", "-s", o.Scope, "-t", "http", o.ServerName, o.HTTPURL}
		},
	},
}

// Bootstrap configures the MCP server for installed agent CLIs and writes the
// executed commands to an audit log.
func Bootstrap(logger *log.Logger, opts Options, runner Runner) error {
	if runner == nil {
		runner = OSRunner{}
	}
	opts = withDefaults(opts)

	cmds, err := BuildCommands(opts)
	if err != nil {
		return err
	}
	if len(cmds) == 0 {
		return errors.New("no supported agent CLI found on PATH")
	}

	auditPath, err := auditLogPath(opts.AuditDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(auditPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(auditPath)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "# reflective-mcp bootstrap %s\n", time.Now().UTC().Format(time.RFC3339))
	for _, c := range cmds {
		line := c.String()
		fmt.Fprintln(f, line)
		logger.Info("bootstrap command", "cmd", line, "dry_run", opts.DryRun)
		if opts.DryRun {
			continue
		}
		if err := runner.Run(c.Name, c.Args...); err != nil {
			// remove fails when nothing is registered yet.
			if len(c.Args) > 1 && c.Args[1] == "remove" {
				logger.Debug("ignoring remove error", "cmd", line, "error", err)
				continue
			}
			return fmt.Errorf("run %q: %w", line, err)
		}
	}

	logger.Info("bootstrap complete", "audit_log", auditPath)
	return nil
}

// BuildCommands builds a deterministic remove+add command list for every
// selected CLI found on PATH.
func BuildCommands(opts Options) ([]Command, error) {
	opts = withDefaults(opts)
	if opts.Scope != "user" && opts.Scope != "project" {
		return nil, fmt.Errorf("invalid scope %q (expected user or project)", opts.Scope)
	}
	var launch []string
	if opts.HTTPURL == "" {
		if strings.TrimSpace(opts.ConfigPath) == "" {
			return nil, errors.New("config path is required")
		}
		launch = append(strings.Fields(opts.ServeCmd), "--config", opts.ConfigPath)
	}

	cmds := make([]Command, 0, 2*len(clients))
	for _, c := range clients {
		if !c.selected(opts) {
			continue
		}
		if _, err := opts.LookPath(c.name); err != nil {
			continue
		}
		add := c.stdio(opts, launch)
		if opts.HTTPURL != "" {
			add = c.http(opts)
		}
		cmds = append(cmds,
			Command{Name: c.name, Args: c.remove(opts)},
			Command{Name: c.name, Args: add},
		)
	}
	return cmds, nil
}

func withDefaults(opts Options) Options {
	if opts.Scope == "" {
		opts.Scope = "user"
	}
	if strings.TrimSpace(opts.ServerName) == "" {
		opts.ServerName = DefaultServerName
	}
	if strings.TrimSpace(opts.ServeCmd) == "" {
		opts.ServeCmd = DefaultServeCmd
	}
	if !opts.All && !opts.Codex && !opts.Claude && !opts.Gemini {
		opts.All = true
	}
	opts.HTTPURL = strings.TrimSpace(opts.HTTPURL)
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	return opts
}

func auditLogPath(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".reflective-mcp")
	}
	return filepath.Join(dir, "bootstrap-last.log"), nil
}
