package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"holopyramid/internal/asset"
	"holopyramid/internal/batch"
	"holopyramid/internal/config"
	"holopyramid/internal/facet"
	"holopyramid/internal/geometry"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	sourceDir := flag.String("sources", "", "Directory of images to display (default: sources)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	sizes := flag.String("sizes", "", "Comma-separated canvas sizes, e.g. 512,1080 (default: 512)")
	sides := flag.Int("sides", 0, "Pyramid side count (default: 4)")
	inner := flag.Float64("inner", 0, "Inner polygon size in pixels (default: 50)")
	format := flag.String("format", "", "Output format: webp or png (default: webp)")
	supersample := flag.Int("supersample", 0, "Supersample factor (default: 2)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	flag.Parse()

	canvasSizes, err := config.ParseSizes(*sizes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file and environment
	cfg.Resolve(config.Flags{
		SourceDir:        *sourceDir,
		OutputDir:        *outputDir,
		CanvasSizes:      canvasSizes,
		Sides:            *sides,
		InnerPolygonSize: *inner,
		Format:           *format,
		Supersample:      *supersample,
		Workers:          *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Index and decode source images
	index, err := asset.BuildIndex(cfg.SourceDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error indexing sources: %v\n", err)
		os.Exit(1)
	}
	sources, loadErrs := batch.LoadSources(asset.NewCache(index))
	for _, e := range loadErrs {
		slog.Warn("skipping source", "error", e)
	}
	fmt.Printf("Sources: %d indexed, %d loaded\n", index.Len(), len(sources))

	settings := make([]facet.Settings, len(sources))
	for i, s := range sources {
		settings[i] = cfg.SettingsFor(s.Name)
	}

	fmt.Printf("Hologram pyramid renderer → %s\n", cfg.Format)
	fmt.Printf("Sides: %d, inner polygon: %g, sizes: %v, workers: %d\n",
		cfg.Sides, cfg.InnerPolygonSize, cfg.CanvasSizes, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:        cfg.OutputDir,
		Format:           cfg.Format,
		Sides:            cfg.Sides,
		InnerPolygonSize: cfg.InnerPolygonSize,
		Sources:          sources,
		Settings:         settings,
		Polygons:         geometry.NewPolygonCache(),
		Supersample:      cfg.Supersample,
		Workers:          cfg.Workers,
		Progress:         os.Stdout,
	}

	jobs := make([]batch.Job, len(cfg.CanvasSizes))
	for i, size := range cfg.CanvasSizes {
		jobs[i] = batch.Job{CanvasSize: size}
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Printf("  %d: %s\n", r.CanvasSize, r.Error)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-failed, len(results))

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, batch.NewManifest(batchCfg, results)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
