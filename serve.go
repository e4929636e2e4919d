/*
Package main
File: serve.go
Description:
    The `serve` subcommand. Loads the catalog and settings defaults, opens
    the store and runs the HTTP server, the WebSocket hub and the data file
    watcher together until a signal or the first failure.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/everforgeworks/regolith/internal/api"
	"github.com/everforgeworks/regolith/internal/catalog"
	"github.com/everforgeworks/regolith/internal/config"
	"github.com/everforgeworks/regolith/internal/reload"
	"github.com/everforgeworks/regolith/internal/settings"
	"github.com/everforgeworks/regolith/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and WebSocket hub",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	// 1. Static data: equipment catalog and system settings defaults
	cat := catalog.NewStore()
	c, err := cat.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.String("version", c.Version()), zap.String("path", cfg.CatalogPath))

	system, err := settings.LoadDefaults(cfg.DefaultsPath)
	if err != nil {
		return fmt.Errorf("load settings defaults: %w", err)
	}

	// 2. Persistence
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	// 3. Real-time hub and REST routes
	hub := api.NewHub(logger)
	srv := api.NewServer(cat, system, st, hub, logger)

	// 4. Hot reload: file changes and SIGHUP swap the data without a restart
	watcher := reload.New(logger, reload.DefaultDebounce)
	for _, f := range cfg.WatchedFiles() {
		fn, err := reloadFunc(f.Kind, cat, srv, hub)
		if err != nil {
			return err
		}
		watcher.Add(f.Path, fn)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 5. Run everything until a signal or the first failure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error {
		logger.Info("regolith server live", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// reloadFunc returns the handler that re-reads one kind of data file and
// announces the new data on the hub.
func reloadFunc(kind config.DataKind, cat *catalog.Store, srv *api.Server, hub *api.Hub) (reload.Func, error) {
	switch kind {
	case config.DataCatalog:
		return func(path string) error {
			c, err := cat.Load(path)
			if err != nil {
				return err
			}
			hub.Publish(api.EventCatalogReloaded, "system", map[string]string{"version": c.Version()})
			return nil
		}, nil
	case config.DataDefaults:
		return func(path string) error {
			d, err := settings.LoadDefaults(path)
			if err != nil {
				return err
			}
			srv.SetDefaults(d)
			hub.Publish(api.EventDefaultsReloaded, "system", d)
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("no reload handler for data file kind %q", kind)
	}
}
