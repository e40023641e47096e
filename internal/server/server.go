// Package server exposes the hologram geometry and frames over HTTP for a
// browser canvas frontend.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"holopyramid/internal/display"
	"holopyramid/internal/facet"
	"holopyramid/internal/geometry"
)

const maxUploadSize = 32 << 20

// Request limits. Frames allocate canvas² × supersample² pixels and the
// polygon search allocates sides points per round, so both are bounded.
const (
	MaxCanvasSize  = 8192
	MaxBackingSize = 16384
	MaxSides       = 360
)

// Options configures a Server.
type Options struct {
	Polygons    *geometry.PolygonCache
	Geometry    facet.Key
	Supersample int
	SlopeDeg    float64
	DPI         float64
	Logger      *slog.Logger
}

// Server holds the preview display shared by all frame requests.
type Server struct {
	// mu keeps a geometry change and the frame drawn with it together.
	mu sync.Mutex

	polygons    *geometry.PolygonCache
	display     *display.Display
	supersample int
	slope       float64
	dpi      float64
	logger   *slog.Logger
}

// New creates a server whose display starts at opts.Geometry.
func New(opts Options) *Server {
	if opts.Polygons == nil {
		opts.Polygons = geometry.NewPolygonCache()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SlopeDeg == 0 {
		opts.SlopeDeg = 45
	}
	if opts.DPI <= 0 {
		opts.DPI = 96
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	return &Server{
		polygons: opts.Polygons,
		display: display.New(opts.Polygons, opts.Geometry,
			display.WithSupersample(opts.Supersample), display.WithLogger(opts.Logger)),
		supersample: opts.Supersample,
		slope:       opts.SlopeDeg,
		dpi:         opts.DPI,
		logger:      opts.Logger,
	}
}

// Display returns the preview display, for seeding sources and settings.
func (s *Server) Display() *display.Display {
	return s.display
}

// Handler is the router wrapped in CORS, which must see preflight requests
// before route method matching rejects them.
func (s *Server) Handler() http.Handler {
	return CORS(s.Router())
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.Recovery)
	r.Use(s.Logger)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/geometry", s.geometry).Methods(http.MethodGet)
	api.HandleFunc("/facets/{index:[0-9]+}", s.facet).Methods(http.MethodGet)
	api.HandleFunc("/frame", s.frame).Methods(http.MethodGet)
	api.HandleFunc("/frame.png", s.framePNG).Methods(http.MethodGet)
	api.HandleFunc("/template.png", s.templatePNG).Methods(http.MethodGet)
	api.HandleFunc("/sources", s.listSources).Methods(http.MethodGet)
	api.HandleFunc("/sources", s.uploadSources).Methods(http.MethodPost)
	api.HandleFunc("/sources/{id}.png", s.sourcePNG).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.putSettings).Methods(http.MethodPut)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter, img image.Image) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	png.Encode(w, img)
}

// fail maps invalid arguments to 400 and everything else to a logged 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var pe *paramError
	if errors.As(err, &pe) || errors.Is(err, geometry.ErrInvalidArgument) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string { return "parameter " + e.name + ": " + e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

// query reads optional typed query parameters, remembering the first parse error.
type query struct {
	r   *http.Request
	err error
}

func (q *query) getFloat(name string, def float64) float64 {
	v := q.r.URL.Query().Get(name)
	if v == "" || q.err != nil {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		q.err = &paramError{name, err}
		return def
	}
	return f
}

func (q *query) getInt(name string, def int) int {
	v := q.r.URL.Query().Get(name)
	if v == "" || q.err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.err = &paramError{name, err}
		return def
	}
	return n
}

func (q *query) getBool(name string) bool {
	v := q.r.URL.Query().Get(name)
	if v == "" || q.err != nil {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.err = &paramError{name, err}
	}
	return b
}

// geometryKey reads canvas, sides and inner, defaulting to the display's geometry.
func (q *query) geometryKey(def facet.Key) facet.Key {
	return facet.Key{
		CanvasSize:       q.getFloat("canvas", def.CanvasSize),
		Sides:            q.getInt("sides", def.Sides),
		InnerPolygonSize: q.getFloat("inner", def.InnerPolygonSize),
	}
}

// checkKey rejects geometry too large to solve or rasterise.
func (s *Server) checkKey(k facet.Key) error {
	if k.CanvasSize > MaxCanvasSize || k.CanvasSize*float64(s.supersample) > MaxBackingSize {
		return fmt.Errorf("server: canvas size %g exceeds %d (supersample %d): %w",
			k.CanvasSize, MaxCanvasSize, s.supersample, geometry.ErrInvalidArgument)
	}
	return checkSides(k.Sides)
}

func checkSides(sides int) error {
	if sides > MaxSides {
		return fmt.Errorf("server: side count %d exceeds %d: %w", sides, MaxSides, geometry.ErrInvalidArgument)
	}
	return nil
}

// settings reads per-image settings; unset fields take the defaults.
func (q *query) settings() facet.Settings {
	d := facet.DefaultSettings()
	return facet.Settings{
		ScalingFactor: q.getFloat("scale", d.ScalingFactor),
		Rotation:      q.getFloat("rotation", d.Rotation),
		Position:      q.getFloat("position", d.Position),
		Flips:         facet.Flips{H: q.getBool("flipH"), V: q.getBool("flipV")},
		Brightness:    q.getFloat("brightness", d.Brightness),
	}
}
