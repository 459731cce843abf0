// reflective-mcp serves reflective-surface vocabulary tools over MCP.
//
// Usage:
//
//	reflective-mcp serve [--config path] [--http addr]
//	reflective-mcp admin [--config path]
//	reflective-mcp bootstrap-clis [--all|--codex --claude --gemini] [--scope user|project] [--http-url url]
//	reflective-mcp taxonomy [--format table|markdown]
//	reflective-mcp rhythm <preset> [--phase-offset n] [--format table|markdown]
//	reflective-mcp version
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/xiy/reflective-mcp/internal/config"
	"github.com/xiy/reflective-mcp/internal/reflective"
)

const defaultConfigPath = "config/reflective-mcp.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "reflective-mcp",
	Short:         "MCP server mapping reflective-surface parameters to image prompt vocabulary",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "reflective-mcp v%s\n", reflective.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	rootCmd.AddCommand(serveCmd, adminCmd, bootstrapCmd, taxonomyCmd, rhythmCmd, versionCmd)
	rootCmd.Version = reflective.Version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: cfg.ServerName})
	setLogLevel(logger, cfg.LogLevel)
	return logger
}

func setLogLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}
