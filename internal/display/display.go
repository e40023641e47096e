// Package display sequences the facet geometry into whole hologram frames,
// either rasterised or as Canvas2D draw commands for a browser frontend.
package display

import (
	"image"
	"log/slog"
	"sync"

	"holopyramid/internal/facet"
	"holopyramid/internal/geometry"
	"holopyramid/internal/postprocess"
)

// Source is one displayed image.
type Source struct {
	ID    string
	Name  string
	Image *image.NRGBA
}

// Option configures a Display.
type Option func(*Display)

// WithSupersample renders at factor× resolution and downsamples the result.
func WithSupersample(factor int) Option {
	return func(d *Display) {
		if factor > 0 {
			d.supersample = factor
		}
	}
}

// WithLogger replaces slog.Default for geometry failure diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Display) { d.logger = l }
}

// Display owns the geometry of one hologram view. Geometry setters recompute
// the bundle and rebuild the facet bases before returning, so a Render that
// follows always sees consistent polygons and transforms.
//
// Safe for concurrent use.
type Display struct {
	mu sync.Mutex

	polygons    *geometry.PolygonCache
	ownsCache   bool
	transforms  *facet.Cache
	logger      *slog.Logger
	supersample int

	key     facet.Key
	bundle  facet.Bundle
	geomErr error

	sources  []Source
	settings []facet.Settings
	prepared map[preparedKey]*image.NRGBA
}

type preparedKey struct {
	source     int
	scale      float64
	brightness float64
}

// New creates a display with the given geometry. A nil polygons cache gives
// the display a private one, whose entries are dropped on resize. Geometry
// errors are kept and reported by Render and DrawCommands.
func New(polygons *geometry.PolygonCache, g facet.Key, opts ...Option) *Display {
	d := &Display{
		polygons:    polygons,
		transforms:  facet.NewCache(),
		logger:      slog.Default(),
		supersample: 1,
		prepared:    make(map[preparedKey]*image.NRGBA),
	}
	if d.polygons == nil {
		d.polygons = geometry.NewPolygonCache()
		d.ownsCache = true
	}
	for _, opt := range opts {
		opt(d)
	}
	d.key = g
	d.recompute()
	return d
}

// recompute refreshes the bundle and, when the key changed, the facet bases.
// Caller holds mu.
func (d *Display) recompute() {
	b, err := facet.ComputeFacetGeometry(d.polygons, d.key.CanvasSize, d.key.Sides, d.key.InnerPolygonSize)
	if err == nil {
		err = d.transforms.Reset(b)
	}
	if err != nil {
		d.transforms.Invalidate()
	}
	d.bundle = b
	d.geomErr = err
}

// SetGeometry replaces all three geometry inputs at once.
func (d *Display) SetGeometry(g facet.Key) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ownsCache && g.CanvasSize != d.key.CanvasSize {
		d.polygons.Drop(d.key.CanvasSize)
	}
	d.key = g
	d.recompute()
	return d.geomErr
}

func (d *Display) SetCanvasSize(size float64) error {
	g := d.Geometry()
	g.CanvasSize = size
	return d.SetGeometry(g)
}

func (d *Display) SetSideCount(sides int) error {
	g := d.Geometry()
	g.Sides = sides
	return d.SetGeometry(g)
}

func (d *Display) SetInnerPolygonSize(size float64) error {
	g := d.Geometry()
	g.InnerPolygonSize = size
	return d.SetGeometry(g)
}

// Geometry returns the current geometry inputs.
func (d *Display) Geometry() facet.Key {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.key
}

// Bundle returns the current geometry bundle, or the error that prevented computing it.
func (d *Display) Bundle() (facet.Bundle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bundle, d.geomErr
}

// SetSources replaces the displayed images. Facet i shows source i mod len(sources).
func (d *Display) SetSources(sources []Source) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sources = append([]Source(nil), sources...)
	clear(d.prepared)
}

// Sources returns a copy of the displayed images.
func (d *Display) Sources() []Source {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Source(nil), d.sources...)
}

// SourceByID finds a displayed image by its ID.
func (d *Display) SourceByID(id string) (Source, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sources {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

// SetSettings replaces the per-image settings, indexed like the sources.
// Missing entries use facet.DefaultSettings.
func (d *Display) SetSettings(settings []facet.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = append([]facet.Settings(nil), settings...)
}

// TransformBuilds reports how many facet bases have been built, for diagnostics.
func (d *Display) TransformBuilds() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transforms.Builds()
}

// facetDraw is one facet's resolved draw state.
type facetDraw struct {
	index      int
	source     int
	settings   facet.Settings
	transforms facet.Transforms
}

// facets resolves the image assignment and transforms of every facet.
// Facets whose settings are unusable are logged and skipped. Caller holds mu.
func (d *Display) facets() []facetDraw {
	if len(d.sources) == 0 {
		return nil
	}
	out := make([]facetDraw, 0, d.bundle.Sides())
	for i := 0; i < d.bundle.Sides(); i++ {
		src := i % len(d.sources)
		s := facet.SettingsFor(d.settings, src)
		tr, err := d.transforms.Transforms(i, s)
		if err != nil {
			d.logger.Warn("skipping facet", "facet", i, "source", d.sources[src].Name, "error", err)
			continue
		}
		out = append(out, facetDraw{index: i, source: src, settings: s, transforms: tr})
	}
	return out
}

// prepare returns source idx scaled and brightened for s. Caller holds mu.
func (d *Display) prepare(idx int, s facet.Settings) *image.NRGBA {
	k := preparedKey{source: idx, scale: s.ScalingFactor, brightness: s.Brightness}
	if img, ok := d.prepared[k]; ok {
		return img
	}
	img := d.sources[idx].Image
	if img == nil {
		return nil
	}
	img = postprocess.ScaleImage(img, s.ScalingFactor)
	if img == nil {
		return nil
	}
	img = postprocess.Brightness(img, s.Brightness)
	d.prepared[k] = img
	return img
}
