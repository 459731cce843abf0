package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/xiy/reflective-mcp/internal/admin"
	"github.com/xiy/reflective-mcp/internal/store"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Open the terminal dashboard over the request log and prompt history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := log.New(os.Stderr)
		st, err := store.OpenSQLite(context.Background(), cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return admin.Run(ctx, cfg.ServerName, st)
	},
}
