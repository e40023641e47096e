package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"holopyramid/internal/asset"
	"holopyramid/internal/display"
	"holopyramid/internal/facet"
	"holopyramid/internal/geometry"
	"holopyramid/internal/template"
)

// geometry handles GET /api/geometry.
func (s *Server) geometry(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	k := q.geometryKey(s.display.Geometry())
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	if err := s.checkKey(k); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := facet.ComputeFacetGeometry(s.polygons, k.CanvasSize, k.Sides, k.InnerPolygonSize)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// FacetResponse is the full transform set of one facet.
type FacetResponse struct {
	Index          int              `json:"index"`
	ClipTransform  []float64        `json:"clipTransform"`
	ImageTransform []float64        `json:"imageTransform"`
	DrawTransform  []float64        `json:"drawTransform"`
	ClipPath       []geometry.Point `json:"clipPath"`
	Settings       facet.Settings   `json:"settings"`
}

// facet handles GET /api/facets/{index}.
func (s *Server) facet(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.fail(w, r, &paramError{"index", err})
		return
	}
	q := &query{r: r}
	k := q.geometryKey(s.display.Geometry())
	settings := q.settings()
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	if err := settings.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.checkKey(k); err != nil {
		s.fail(w, r, err)
		return
	}

	b, err := facet.ComputeFacetGeometry(s.polygons, k.CanvasSize, k.Sides, k.InnerPolygonSize)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tr, err := facet.BuildFacetTransforms(idx, b, settings)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FacetResponse{
		Index:          idx,
		ClipTransform:  tr.Clip.Slice(),
		ImageTransform: tr.Image.Slice(),
		DrawTransform:  tr.Draw(settings).Slice(),
		ClipPath:       tr.ClipPath,
		Settings:       settings,
	})
}

// FrameResponse is the Canvas2D command list of one frame.
type FrameResponse struct {
	CanvasSize       float64               `json:"canvasSize"`
	Sides            int                   `json:"sides"`
	InnerPolygonSize float64               `json:"innerPolygonSize"`
	Commands         []display.DrawCommand `json:"commands"`
}

// applyGeometry moves the shared display to the requested geometry. Caller holds mu.
func (s *Server) applyGeometry(r *http.Request) (facet.Key, error) {
	q := &query{r: r}
	k := q.geometryKey(s.display.Geometry())
	if q.err != nil {
		return k, q.err
	}
	if err := s.checkKey(k); err != nil {
		return k, err
	}
	if k != s.display.Geometry() {
		if err := s.display.SetGeometry(k); err != nil {
			return k, err
		}
	}
	return k, nil
}

// frame handles GET /api/frame.
func (s *Server) frame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.applyGeometry(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cmds, err := s.display.DrawCommands()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FrameResponse{
		CanvasSize:       k.CanvasSize,
		Sides:            k.Sides,
		InnerPolygonSize: k.InnerPolygonSize,
		Commands:         cmds,
	})
}

// framePNG handles GET /api/frame.png.
func (s *Server) framePNG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.applyGeometry(r); err != nil {
		s.fail(w, r, err)
		return
	}
	img, err := s.display.Render()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writePNG(w, img)
}

// templatePNG handles GET /api/template.png.
func (s *Server) templatePNG(w http.ResponseWriter, r *http.Request) {
	g := s.display.Geometry()
	q := &query{r: r}
	sides := q.getInt("sides", g.Sides)
	slope := q.getFloat("slope", s.slope)
	inside := q.getFloat("inside", g.InnerPolygonSize)
	outside := q.getFloat("outside", g.CanvasSize)
	dpi := q.getFloat("dpi", s.dpi)
	labelled := r.URL.Query().Get("label") != "false"
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	if err := checkSides(sides); err != nil {
		s.fail(w, r, err)
		return
	}

	d, err := template.Compute(sides, slope, inside, outside)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	img, err := template.Render(d, dpi, labelled)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", geometry.ErrInvalidArgument, err))
		return
	}
	writePNG(w, img)
}

// SourceInfo describes one displayed image.
type SourceInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

func sourceInfos(sources []display.Source) []SourceInfo {
	out := make([]SourceInfo, 0, len(sources))
	for _, src := range sources {
		info := SourceInfo{ID: src.ID, Name: src.Name, URL: "/api/sources/" + src.ID + ".png"}
		if src.Image != nil {
			b := src.Image.Bounds()
			info.Width, info.Height = b.Dx(), b.Dy()
		}
		out = append(out, info)
	}
	return out
}

// listSources handles GET /api/sources.
func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sourceInfos(s.display.Sources()))
}

// UploadRequest replaces the displayed images with data URLs.
type UploadRequest struct {
	Sources []struct {
		Name    string `json:"name"`
		DataURL string `json:"dataUrl"`
	} `json:"sources"`
	Settings []facet.Settings `json:"settings,omitempty"`
}

// uploadSources handles POST /api/sources.
func (s *Server) uploadSources(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, &paramError{"body", err})
		return
	}
	if err := validateSettings(req.Settings); err != nil {
		s.fail(w, r, err)
		return
	}

	sources := make([]display.Source, 0, len(req.Sources))
	for i, in := range req.Sources {
		img, err := asset.LoadDataURL(in.DataURL)
		if err != nil {
			s.fail(w, r, &paramError{fmt.Sprintf("sources[%d]", i), err})
			return
		}
		sources = append(sources, display.Source{ID: asset.NewID(), Name: in.Name, Image: img})
	}

	s.display.SetSources(sources)
	if req.Settings != nil {
		s.display.SetSettings(req.Settings)
	}
	s.logger.Info("sources replaced", "count", len(sources))
	writeJSON(w, http.StatusOK, sourceInfos(sources))
}

// sourcePNG handles GET /api/sources/{id}.png.
func (s *Server) sourcePNG(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	src, ok := s.display.SourceByID(id)
	if !ok || src.Image == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "source not found"})
		return
	}
	writePNG(w, src.Image)
}

// putSettings handles PUT /api/settings.
func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings []facet.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.fail(w, r, &paramError{"body", err})
		return
	}
	if err := validateSettings(settings); err != nil {
		s.fail(w, r, err)
		return
	}
	s.display.SetSettings(settings)
	w.WriteHeader(http.StatusNoContent)
}

func validateSettings(all []facet.Settings) error {
	for i, st := range all {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("settings[%d]: %w", i, err)
		}
	}
	return nil
}
