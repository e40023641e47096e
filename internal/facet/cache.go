package facet

import (
	"fmt"

	"holopyramid/internal/geometry"
)

// Cache holds the geometry-dependent bases of every facet. Reset rebuilds
// them eagerly when the geometry key changes; per-image settings are applied
// fresh on each Transforms call and never invalidate anything.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	bundle   Bundle
	valid    bool
	bases    []Base
	clipPath []geometry.Point
	builds   int
}

func NewCache() *Cache {
	return &Cache{}
}

// Reset installs b. Bases are rebuilt only if b's geometry key differs from
// the current one.
func (c *Cache) Reset(b Bundle) error {
	if c.valid && c.bundle.Key() == b.Key() {
		return nil
	}
	c.Invalidate()

	bases, err := BuildBases(b)
	if err != nil {
		return err
	}
	path, err := ClipPath(b)
	if err != nil {
		return err
	}

	c.bundle = b
	c.bases = bases
	c.clipPath = path
	c.builds += len(bases)
	c.valid = true
	return nil
}

// Invalidate drops every cached base.
func (c *Cache) Invalidate() {
	c.valid = false
	c.bases = nil
	c.clipPath = nil
}

// Valid reports whether Reset has installed a bundle since the last Invalidate.
func (c *Cache) Valid() bool {
	return c.valid
}

// Bundle returns the installed bundle.
func (c *Cache) Bundle() Bundle {
	return c.bundle
}

// Base returns facet i's cached base.
func (c *Cache) Base(i int) (Base, error) {
	if !c.valid {
		return Base{}, fmt.Errorf("facet: cache has no geometry: %w", geometry.ErrGeometry)
	}
	if i < 0 || i >= len(c.bases) {
		return Base{}, fmt.Errorf("facet: index %d of %d: %w", i, len(c.bases), geometry.ErrInvalidArgument)
	}
	return c.bases[i], nil
}

// Transforms returns facet i's transforms for an image with settings s.
func (c *Cache) Transforms(i int, s Settings) (Transforms, error) {
	base, err := c.Base(i)
	if err != nil {
		return Transforms{}, err
	}
	return base.Apply(c.bundle, c.clipPath, s)
}

// Builds counts facet bases constructed over the cache's lifetime.
func (c *Cache) Builds() int {
	return c.builds
}
