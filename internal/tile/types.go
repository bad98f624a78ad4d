// internal/tile/types.go - Tile cache types
package tile

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/paulmach/orb"

	"osm-tile-plotter/pkg/slippy"
)

// ErrTooManyTiles is returned when a range exceeds the configured ceiling.
var ErrTooManyTiles = errors.New("tile range exceeds configured ceiling")

// Status describes what a fetch attempt established about a tile's cache
// entry. File existence alone cannot distinguish a real tile from a
// placeholder written after a failed download, so the fetcher reports the
// distinction explicitly.
type Status int

const (
	// StatusNotAttempted means no fetch was attempted for the tile.
	StatusNotAttempted Status = iota
	// StatusFetched means the cache file holds downloaded tile data
	// (either from this fetch or from an earlier cached run).
	StatusFetched
	// StatusPlaceholder means the fetch failed and a blank placeholder
	// was written in place of the tile.
	StatusPlaceholder
)

// String returns a human-readable representation of the status
func (s Status) String() string {
	switch s {
	case StatusFetched:
		return "fetched"
	case StatusPlaceholder:
		return "placeholder"
	default:
		return "not-attempted"
	}
}

// Range represents a rectangular range of tile indices at one zoom level
type Range struct {
	Zoom int `json:"zoom"`
	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
}

// Count returns the total number of tiles in the range
func (r Range) Count() int {
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

// Validate checks the range invariants. A positive maxTiles bounds the
// number of tiles the range may address; ErrTooManyTiles is returned when
// the ceiling is exceeded.
func (r Range) Validate(maxTiles int) error {
	if r.Zoom < 0 || r.Zoom > slippy.MaxZoom {
		return fmt.Errorf("zoom %d out of range [0, %d]", r.Zoom, slippy.MaxZoom)
	}

	if r.MinX > r.MaxX || r.MinY > r.MaxY {
		return fmt.Errorf("invalid range: min exceeds max (x %d..%d, y %d..%d)", r.MinX, r.MaxX, r.MinY, r.MaxY)
	}

	if maxTiles > 0 && r.Count() > maxTiles {
		return fmt.Errorf("%w: %d tiles requested, limit is %d", ErrTooManyTiles, r.Count(), maxTiles)
	}

	return nil
}

// Tiles enumerates the coordinates of the range, x outer and y inner.
func (r Range) Tiles() []slippy.Tile {
	tiles := make([]slippy.Tile, 0, r.Count())
	for x := r.MinX; x <= r.MaxX; x++ {
		for y := r.MinY; y <= r.MaxY; y++ {
			tiles = append(tiles, slippy.Tile{Z: r.Zoom, X: x, Y: y})
		}
	}
	return tiles
}

// RangeForBound computes the tile range covering a geographic bounding box
// at the given zoom level. The south-west corner yields the minimum x and
// maximum y index; the north-east corner the converse.
func RangeForBound(b orb.Bound, zoom int) Range {
	sw := slippy.TileAt(b.Min.Lat(), b.Min.Lon(), zoom)
	ne := slippy.TileAt(b.Max.Lat(), b.Max.Lon(), zoom)
	return Range{
		Zoom: zoom,
		MinX: sw.X,
		MaxX: ne.X,
		MinY: ne.Y,
		MaxY: sw.Y,
	}
}

// Result records the outcome of one fetch attempt
type Result struct {
	Tile   slippy.Tile
	Status Status
	Path   string
}

// Fetcher defines the interface for populating the tile cache
type Fetcher interface {
	Fetch(t slippy.Tile) (Result, error)
	FetchRange(r Range) ([]Result, error)
}

// CachePath returns the deterministic cache file path for a tile
func CachePath(dir string, t slippy.Tile) string {
	return filepath.Join(dir, fmt.Sprintf("tile_%d_%d_%d.png", t.Z, t.X, t.Y))
}
