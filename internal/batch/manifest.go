package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"holopyramid/internal/display"
)

// ManifestSource is one source image used by every frame.
type ManifestSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ManifestEntry represents one rendered frame in the output manifest.
type ManifestEntry struct {
	CanvasSize int    `json:"canvas_size"`
	Image      string `json:"image,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Manifest describes one batch run.
type Manifest struct {
	RunID            string           `json:"run_id"`
	CreatedAt        time.Time        `json:"created_at"`
	Sides            int              `json:"sides"`
	InnerPolygonSize float64          `json:"inner_polygon_size"`
	Sources          []ManifestSource `json:"sources"`
	Frames           []ManifestEntry  `json:"frames"`
}

// NewManifest records the results of a run under a fresh run ID. Failed
// frames keep their error text and no image.
func NewManifest(cfg Config, results []Result) Manifest {
	m := Manifest{
		RunID:            uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		Sides:            cfg.Sides,
		InnerPolygonSize: cfg.InnerPolygonSize,
		Sources:          manifestSources(cfg.Sources),
		Frames:           make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		e := ManifestEntry{CanvasSize: r.CanvasSize}
		if r.Success {
			e.Image = r.Image
		} else {
			e.Error = r.Error
		}
		m.Frames[i] = e
	}
	return m
}

func manifestSources(sources []display.Source) []ManifestSource {
	out := make([]ManifestSource, len(sources))
	for i, s := range sources {
		out[i] = ManifestSource{ID: s.ID, Name: s.Name}
	}
	return out
}

// WriteManifest writes manifest.json to the output directory.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
