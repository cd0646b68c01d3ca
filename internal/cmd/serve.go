package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/server"
	"github.com/icon-pbg/icon-go/internal/snapshot"
)

var (
	serveAddr     string
	serveBasePath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serve the compliance views over HTTP. The sheet is loaded on the first
request and cached for cache_ttl; when a reload fails the previous snapshot
keeps being served.

The OpenAPI document is served at /openapi.json.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveBasePath, "base-path", "", "API base path (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	if err := p.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	src, err := p.source()
	if err != nil {
		return err
	}
	opts, err := p.loadOptions()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = p.cfg.ICON.Server.Addr
	}
	basePath := serveBasePath
	if basePath == "" {
		basePath = p.cfg.ICON.Server.BasePath
	}

	logger := log.New(cmd.ErrOrStderr(), "icon: ", log.LstdFlags)
	store := snapshot.New(snapshot.Config{
		Source:  src,
		Options: opts,
		TTL:     p.cfg.ICON.CacheTTL,
		Logger:  logger,
	})
	handler, err := server.New(server.Config{
		Store:    store,
		BasePath: basePath,
		Version:  Version,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	cmd.Printf("Serving i-CON API on http://%s%s (OpenAPI at /openapi.json)\n", addr, basePath)
	cmd.Printf("Source: %s\n", src.Name())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
