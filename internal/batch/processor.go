// Package batch renders hologram frames for many canvas sizes in parallel.
package batch

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"holopyramid/internal/asset"
	"holopyramid/internal/display"
	"holopyramid/internal/facet"
	"holopyramid/internal/geometry"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir        string
	Format           string // "webp" or "png"
	Sides            int
	InnerPolygonSize float64
	Sources          []display.Source
	Settings         []facet.Settings
	Polygons         *geometry.PolygonCache
	Supersample      int
	Workers          int
	Progress         io.Writer // nil disables the progress reporter
}

// Job is one frame to render.
type Job struct {
	CanvasSize int
}

// Result holds the outcome of rendering one job.
type Result struct {
	CanvasSize int
	Image      string
	Success    bool
	Error      string
}

// Run renders all jobs using a worker pool.
func Run(cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Polygons == nil {
		cfg.Polygons = geometry.NewPolygonCache()
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// FileName is the output file for a canvas size.
func FileName(size int, format string) string {
	if format == "png" {
		return fmt.Sprintf("%d.png", size)
	}
	return fmt.Sprintf("%d.webp", size)
}

func processJob(cfg Config, job Job) Result {
	name := FileName(job.CanvasSize, cfg.Format)
	res := Result{CanvasSize: job.CanvasSize, Image: name}

	d := display.New(cfg.Polygons, facet.Key{
		CanvasSize:       float64(job.CanvasSize),
		Sides:            cfg.Sides,
		InnerPolygonSize: cfg.InnerPolygonSize,
	}, display.WithSupersample(cfg.Supersample))
	d.SetSources(cfg.Sources)
	d.SetSettings(cfg.Settings)

	img, err := d.Render()
	if err != nil {
		res.Error = err.Error()
		return res
	}

	outPath := filepath.Join(cfg.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	if err := writeImage(outPath, img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

func writeImage(path string, img image.Image, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if format == "png" {
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("PNG encode: %v", err)
		}
	} else if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %v", err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// LoadSources resolves every indexed image through the asset cache, in index
// order. Entries that fail to decode are skipped and reported in the error list.
func LoadSources(cache *asset.Cache) ([]display.Source, []error) {
	var (
		sources []display.Source
		errs    []error
	)
	for _, e := range cache.Index().Entries() {
		img, err := cache.Resolve(e.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
			continue
		}
		sources = append(sources, display.Source{ID: e.ID, Name: e.Name, Image: img})
	}
	return sources, errs
}
