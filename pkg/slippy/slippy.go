// pkg/slippy/slippy.go - Slippy-map coordinate mathematics
package slippy

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	// MaxZoom is the deepest zoom level addressed by the tile scheme.
	MaxZoom = 18

	// TileSize is the edge length of a single raster tile in pixels.
	TileSize = 256
)

// lonNormalization is an empirical constant approximating the average
// Mercator scale along the east-west axis. A unit-circle Mercator projection
// distorts latitude spacing, so the longitude span cannot use the plain
// angular ratio that the latitude span uses.
const lonNormalization = 170.1023

// Tile addresses one raster tile in the slippy-map scheme. Valid indices
// satisfy 0 <= X,Y < 2^Z for 0 <= Z <= MaxZoom.
type Tile struct {
	Z int `json:"z"`
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the conventional z/x/y representation of the tile.
func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// ZoomLevel computes the minimal zoom level at which the bounding box's
// angular span fits typical tile coverage. The result is clamped to
// [0, MaxZoom]; the +1 is a safety margin against under-zooming. Both spans
// of the bound must be strictly positive.
func ZoomLevel(b orb.Bound) (int, error) {
	latSpan := b.Max.Lat() - b.Min.Lat()
	lonSpan := b.Max.Lon() - b.Min.Lon()
	if latSpan <= 0 || lonSpan <= 0 {
		return 0, fmt.Errorf("bounding box spans must be positive, got lon=%g lat=%g", lonSpan, latSpan)
	}

	zLon := math.Ceil(math.Log2(360 / latSpan))
	zLat := math.Ceil(math.Log2(lonNormalization / lonSpan))

	zoom := int(math.Min(zLon, zLat)) + 1
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	if zoom < 0 {
		zoom = 0
	}
	return zoom, nil
}

// GlobalXY returns the fractional global tile coordinates for a point at the
// given zoom level (standard Web-Mercator forward projection). The result is
// only defined for |lat| < 90; at the poles the projection diverges and the
// output is non-finite.
func GlobalXY(lat, lon float64, zoom int) (x, y float64) {
	latRad := lat * math.Pi / 180
	n := math.Exp2(float64(zoom))
	x = (lon + 180) / 360 * n
	y = (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n
	return x, y
}

// TileAt returns the tile containing the given point by truncating the
// global coordinates to integer tile indices.
func TileAt(lat, lon float64, zoom int) Tile {
	x, y := GlobalXY(lat, lon, zoom)
	return Tile{Z: zoom, X: int(x), Y: int(y)}
}

// TileNW returns the latitude and longitude of the north-west corner of tile
// (x, y). Callers needing the opposite corner pass x+1 or y+1 on the
// relevant axis.
func TileNW(x, y, zoom int) (lat, lon float64) {
	n := math.Exp2(float64(zoom))
	lon = float64(x)/n*360 - 180
	lat = math.Atan(math.Sinh(math.Pi*(1-2*float64(y)/n))) * 180 / math.Pi
	return lat, lon
}

// SemicircleToDegrees converts the fixed-point semicircle angular unit used
// by some GPS device encodings to degrees.
func SemicircleToDegrees(v int64) float64 {
	return float64(v) * 180 / (1 << 31)
}
