package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holopyramid/internal/asset"
	"holopyramid/internal/batch"
	"holopyramid/internal/config"
	"holopyramid/internal/facet"
	"holopyramid/internal/geometry"
	"holopyramid/internal/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	configFile := flag.String("config", "", "Path to config.json file")
	listen := flag.String("listen", "", "Listen address (default: :8080)")
	sourceDir := flag.String("sources", "", "Directory of images to preload")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	cfg.Resolve(config.Flags{ListenAddr: *listen, SourceDir: *sourceDir})
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	srv := server.New(server.Options{
		Polygons: geometry.NewPolygonCache(),
		Geometry: facet.Key{
			CanvasSize:       float64(cfg.CanvasSizes[0]),
			Sides:            cfg.Sides,
			InnerPolygonSize: cfg.InnerPolygonSize,
		},
		Supersample: cfg.Supersample,
		SlopeDeg:    cfg.SlopeDeg,
		DPI:         cfg.DPI,
	})

	// Preload sources when the directory exists; the API can replace them later.
	if index, err := asset.BuildIndex(cfg.SourceDir); err != nil {
		slog.Info("no sources preloaded", "dir", cfg.SourceDir, "error", err)
	} else {
		sources, errs := batch.LoadSources(asset.NewCache(index))
		for _, e := range errs {
			slog.Warn("skipping source", "error", e)
		}
		settings := make([]facet.Settings, len(sources))
		for i, s := range sources {
			settings[i] = cfg.SettingsFor(s.Name)
		}
		srv.Display().SetSources(sources)
		srv.Display().SetSettings(settings)
		slog.Info("sources loaded", "dir", cfg.SourceDir, "count", len(sources))
	}

	httpSrv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", cfg.ListenAddr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
