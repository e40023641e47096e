package geometry

import "sync"

// PolygonCache memoizes MaxInscribedPolygon per canvas size and side count.
// The search costs sides × 300 candidate evaluations, so it must not run per frame.
// Safe for concurrent use; batch workers share one cache.
type PolygonCache struct {
	mu      sync.RWMutex
	bySize  map[float64]map[int]Polygon
	solves  int
	solveFn func(float64, int) (Polygon, error)
}

// NewPolygonCache creates an empty cache backed by MaxInscribedPolygon.
func NewPolygonCache() *PolygonCache {
	return &PolygonCache{
		bySize:  make(map[float64]map[int]Polygon),
		solveFn: MaxInscribedPolygon,
	}
}

// Get returns the cached polygon for (canvasSize, sides), solving on a miss.
// Invalid arguments are rejected before any search runs and are never cached.
func (c *PolygonCache) Get(canvasSize float64, sides int) (Polygon, error) {
	if err := validatePolygonArgs(canvasSize, sides); err != nil {
		return Polygon{}, err
	}

	// Fast path: read lock
	c.mu.RLock()
	if p, ok := c.bySize[canvasSize][sides]; ok {
		c.mu.RUnlock()
		return p.clone(), nil
	}
	c.mu.RUnlock()

	// Slow path: solve outside the lock
	p, err := c.solveFn(canvasSize, sides)
	if err != nil {
		return Polygon{}, err
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.bySize[canvasSize][sides]; ok {
		return existing.clone(), nil
	}
	entry := c.bySize[canvasSize]
	if entry == nil {
		entry = make(map[int]Polygon)
		c.bySize[canvasSize] = entry
	}
	entry[sides] = p
	c.solves++
	return p.clone(), nil
}

// Drop discards every polygon computed for canvasSize. Call it when a display
// is resized away from that size.
func (c *PolygonCache) Drop(canvasSize float64) {
	c.mu.Lock()
	delete(c.bySize, canvasSize)
	c.mu.Unlock()
}

// Len returns the number of cached polygons across all canvas sizes.
func (c *PolygonCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entry := range c.bySize {
		n += len(entry)
	}
	return n
}

// Solves returns how many searches have been stored since creation.
func (c *PolygonCache) Solves() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.solves
}

// clone copies the point slice so callers can never alias cached state.
func (p Polygon) clone() Polygon {
	pts := make([]Point, len(p.Points))
	copy(pts, p.Points)
	p.Points = pts
	return p
}
