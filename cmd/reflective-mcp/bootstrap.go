package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/xiy/reflective-mcp/internal/bootstrap"
)

var bootstrapOpts bootstrap.Options

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap-clis",
	Short: "Register the server with installed agent CLIs (codex, claude, gemini)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := bootstrapOpts
		opts.ConfigPath = configPath
		return bootstrap.Bootstrap(log.New(os.Stderr), opts, nil)
	},
}

func init() {
	f := bootstrapCmd.Flags()
	f.StringVar(&bootstrapOpts.Scope, "scope", "user", "config scope: user or project")
	f.StringVar(&bootstrapOpts.ServerName, "server-name", bootstrap.DefaultServerName, "MCP server registration name")
	f.StringVar(&bootstrapOpts.ServeCmd, "serve-command", bootstrap.DefaultServeCmd, "command used by MCP clients to launch the stdio server")
	f.StringVar(&bootstrapOpts.HTTPURL, "http-url", "", "register a running streamable HTTP endpoint instead of a stdio command")
	f.BoolVar(&bootstrapOpts.All, "all", false, "configure all available CLIs")
	f.BoolVar(&bootstrapOpts.Codex, "codex", false, "configure Codex CLI")
	f.BoolVar(&bootstrapOpts.Claude, "claude", false, "configure Claude CLI")
	f.BoolVar(&bootstrapOpts.Gemini, "gemini", false, "configure Gemini CLI")
	f.BoolVar(&bootstrapOpts.DryRun, "dry-run", false, "print intended commands without executing")
}
