package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xiy/reflective-mcp/internal/config"
	"github.com/xiy/reflective-mcp/internal/mcp"
	"github.com/xiy/reflective-mcp/internal/metrics"
	"github.com/xiy/reflective-mcp/internal/reflective"
	"github.com/xiy/reflective-mcp/internal/retention"
	"github.com/xiy/reflective-mcp/internal/store"
)

const shutdownTimeout = 5 * time.Second

var serveHTTPAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the MCP server over stdin/stdout (Content-Length framed or JSON-line,
detected from the first message). With --http the server instead listens for
streamable HTTP on /mcp and exposes Prometheus metrics on /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHTTPAddr != "" {
		cfg.Transport = config.TransportHTTP
		cfg.HTTPAddr = serveHTTPAddr
	}
	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.OpenSQLite(ctx, cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	var history reflective.History
	if cfg.HistoryEnabled {
		history = st
	}
	svc, err := reflective.NewService(history, cfg, logger)
	if err != nil {
		return err
	}
	rec := metrics.New()
	svc.UseMetrics(rec)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		retention.Start(gctx, logger,
			time.Duration(cfg.PruneIntervalSeconds)*time.Second,
			time.Duration(cfg.RequestLogRetentionHours)*time.Hour,
			st)
		return nil
	})

	switch cfg.Transport {
	case config.TransportHTTP:
		srv := mcp.NewSDKServer(svc, cfg.ServerName, logger, st)
		srv.UseMetrics(rec)
		httpSrv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           srv.Handler(rec),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("starting MCP HTTP server", "addr", cfg.HTTPAddr, "db", cfg.DBPath)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			return httpSrv.Shutdown(shutdownCtx)
		})
	default:
		srv := mcp.NewServer(svc, cfg.ServerName, logger, st)
		srv.UseMetrics(rec)
		g.Go(func() error {
			// stdin closing ends the process, including the pruner.
			defer cancel()
			logger.Info("starting MCP stdio server", "db", cfg.DBPath, "history", cfg.HistoryEnabled)
			err := srv.Serve(gctx, os.Stdin, os.Stdout)
			c := srv.Snapshot()
			logger.Info("MCP stdio server stopped", "requests", c.Requests, "errors", c.Errors)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
