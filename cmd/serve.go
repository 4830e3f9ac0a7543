package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/dashboard"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/dataset"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gate := dashboard.NewGate()
		cache := dashboard.NewTileCache(
			cfg.Basemap.CacheEntries,
			time.Duration(cfg.Basemap.CacheTTLMinutes)*time.Minute,
		)
		tiles := dashboard.NewTileProxy(
			cfg.Basemap.TileURL, cfg.Basemap.Format, cache,
			cfg.Basemap.RatePerSecond, cfg.Basemap.Burst,
		)
		server := dashboard.NewServer(gate, tiles)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.Routes(),
		}

		g, gctx := errgroup.WithContext(ctx)

		// One-shot dataset load. A failure leaves the dashboard in its
		// error state rather than killing the server: the page shows the
		// message and offers no retry.
		g.Go(func() error {
			gate.StartLoading()
			loader := dataset.NewLoader(nil)

			var ds *geojson.Dataset
			var err error
			if cfg.Dataset.URL != "" {
				ds, err = loader.Load(gctx, cfg.Dataset.URL)
			} else {
				ds, err = loader.LoadFile(gctx, cfg.Dataset.Path)
			}
			if err != nil {
				zap.L().Error("dataset load failed", zap.Error(err))
				gate.Fail(err)
				return nil
			}

			gate.Ready(ds)
			zap.L().Info("dataset ready", zap.Int("features", len(ds.Features)))
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			return srv.Shutdown(cmd.Context())
		})

		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
