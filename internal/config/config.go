package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"holopyramid/internal/facet"
)

// EnvPrefix prefixes every environment override, e.g. HOLO_SIDES.
const EnvPrefix = "HOLO"

// Output formats.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
)

// Config holds all configurable paths, geometry and render settings.
type Config struct {
	// Paths
	BaseDir   string `json:"base_dir"`
	SourceDir string `json:"source_dir"`
	OutputDir string `json:"output_dir"`

	// Geometry
	CanvasSizes      []int   `json:"canvas_sizes"`
	Sides            int     `json:"sides"`
	InnerPolygonSize float64 `json:"inner_polygon_size"`

	// Render settings
	Format      string `json:"format"`
	Supersample int    `json:"supersample"`
	Workers     int    `json:"workers"`

	// Cutting template
	SlopeDeg float64 `json:"slope_deg"`
	DPI      float64 `json:"dpi"`

	// Preview server
	ListenAddr string `json:"listen_addr"`

	// Per-image settings keyed by source file name
	Images map[string]facet.Settings `json:"images"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Env is the set of HOLO_* environment overrides. Unset variables leave the
// corresponding Config field alone.
type Env struct {
	BaseDir          string  `envconfig:"BASE_DIR"`
	SourceDir        string  `envconfig:"SOURCE_DIR"`
	OutputDir        string  `envconfig:"OUTPUT_DIR"`
	CanvasSizes      []int   `envconfig:"CANVAS_SIZES"`
	Sides            int     `envconfig:"SIDES"`
	InnerPolygonSize float64 `envconfig:"INNER_POLYGON_SIZE"`
	Format           string  `envconfig:"FORMAT"`
	Supersample      int     `envconfig:"SUPERSAMPLE"`
	Workers          int     `envconfig:"WORKERS"`
	ListenAddr       string  `envconfig:"LISTEN_ADDR"`
}

// ApplyEnv overrides file settings with HOLO_* environment variables.
func (c *Config) ApplyEnv() error {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	setString(&c.BaseDir, e.BaseDir)
	setString(&c.SourceDir, e.SourceDir)
	setString(&c.OutputDir, e.OutputDir)
	if len(e.CanvasSizes) > 0 {
		c.CanvasSizes = e.CanvasSizes
	}
	setInt(&c.Sides, e.Sides)
	if e.InnerPolygonSize != 0 {
		c.InnerPolygonSize = e.InnerPolygonSize
	}
	setString(&c.Format, e.Format)
	setInt(&c.Supersample, e.Supersample)
	setInt(&c.Workers, e.Workers)
	setString(&c.ListenAddr, e.ListenAddr)
	return nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file and environment
	setString(&c.SourceDir, flags.SourceDir)
	setString(&c.OutputDir, flags.OutputDir)
	if len(flags.CanvasSizes) > 0 {
		c.CanvasSizes = flags.CanvasSizes
	}
	setInt(&c.Sides, flags.Sides)
	if flags.InnerPolygonSize > 0 {
		c.InnerPolygonSize = flags.InnerPolygonSize
	}
	setString(&c.Format, flags.Format)
	setInt(&c.Supersample, flags.Supersample)
	setInt(&c.Workers, flags.Workers)
	setString(&c.ListenAddr, flags.ListenAddr)

	// Resolve relative paths against base dir
	if c.SourceDir == "" {
		c.SourceDir = "sources"
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.BaseDir != "" {
		if !filepath.IsAbs(c.SourceDir) {
			c.SourceDir = filepath.Join(c.BaseDir, c.SourceDir)
		}
		if !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
		}
	}

	// Defaults for geometry and render settings
	if len(c.CanvasSizes) == 0 {
		c.CanvasSizes = []int{512}
	}
	if c.Sides <= 0 {
		c.Sides = 4
	}
	if c.InnerPolygonSize <= 0 {
		c.InnerPolygonSize = 50
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = FormatWebP
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.SlopeDeg == 0 {
		c.SlopeDeg = 45
	}
	if c.DPI <= 0 {
		c.DPI = 96
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
}

// Validate reports settings no render could succeed with.
func (c *Config) Validate() error {
	if c.Sides < 3 {
		return fmt.Errorf("config: sides %d (need >= 3)", c.Sides)
	}
	for _, s := range c.CanvasSizes {
		if s <= 0 {
			return fmt.Errorf("config: canvas size %d", s)
		}
	}
	if c.Format != FormatWebP && c.Format != FormatPNG {
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	return nil
}

// SettingsFor returns the per-image settings for a source name, with defaults filled.
func (c *Config) SettingsFor(name string) facet.Settings {
	if s, ok := c.Images[name]; ok {
		return s.WithDefaults()
	}
	return facet.DefaultSettings()
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SourceDir        string
	OutputDir        string
	CanvasSizes      []int
	Sides            int
	InnerPolygonSize float64
	Format           string
	Supersample      int
	Workers          int
	ListenAddr       string
}

// ParseSizes parses a comma-separated size list such as "256,512".
func ParseSizes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("config: canvas size %q: %w", part, err)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
