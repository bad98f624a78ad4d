// pkg/slippy/slippy_test.go - Unit tests for slippy-map coordinate math
package slippy

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bound(minLon, minLat, maxLon, maxLat float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{minLon, minLat},
		Max: orb.Point{maxLon, maxLat},
	}
}

func TestZoomLevel(t *testing.T) {
	tests := []struct {
		name  string
		bound orb.Bound
		want  int
	}{
		{
			name:  "berlin city block span",
			bound: bound(13.3, 52.5, 13.5, 52.6),
			want:  11,
		},
		{
			name:  "near-global span clamps low",
			bound: bound(-170, -80, 170, 80),
			want:  1,
		},
		{
			name:  "tiny span clamps to max zoom",
			bound: bound(13.40000, 52.50000, 13.40001, 52.50001),
			want:  MaxZoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ZoomLevel(tt.bound)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZoomLevelDegenerateBound(t *testing.T) {
	_, err := ZoomLevel(bound(13.4, 52.5, 13.4, 52.6))
	assert.Error(t, err)

	_, err = ZoomLevel(bound(13.3, 52.5, 13.5, 52.5))
	assert.Error(t, err)
}

func TestZoomLevelMonotonicNonIncreasing(t *testing.T) {
	// Growing both spans must never increase the estimated zoom, and the
	// result always stays within [0, MaxZoom].
	previous := MaxZoom + 1
	for span := 0.001; span < 150; span *= 2 {
		zoom, err := ZoomLevel(bound(0, 0, span, span))
		require.NoError(t, err)

		assert.GreaterOrEqual(t, zoom, 0)
		assert.LessOrEqual(t, zoom, MaxZoom)
		assert.LessOrEqual(t, zoom, previous, "zoom increased when span grew to %g", span)
		previous = zoom
	}
}

func TestGlobalXY(t *testing.T) {
	// The origin projects to the center of the single zoom-0 tile.
	x, y := GlobalXY(0, 0, 0)
	assert.InDelta(t, 0.5, x, 1e-12)
	assert.InDelta(t, 0.5, y, 1e-12)

	// Doubling the zoom doubles the global coordinates.
	x1, y1 := GlobalXY(52.52, 13.405, 16)
	x2, y2 := GlobalXY(52.52, 13.405, 17)
	assert.InDelta(t, 2*x1, x2, 1e-6)
	assert.InDelta(t, 2*y1, y2, 1e-6)
}

func TestTileAt(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		zoom     int
		want     Tile
	}{
		{
			name: "berlin at street zoom",
			lat:  52.52, lon: 13.405, zoom: 17,
			want: Tile{Z: 17, X: 70416, Y: 42985},
		},
		{
			name: "origin at zoom zero",
			lat:  0, lon: 0, zoom: 0,
			want: Tile{Z: 0, X: 0, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TileAt(tt.lat, tt.lon, tt.zoom))
		})
	}
}

func TestTileNW(t *testing.T) {
	lat, lon := TileNW(0, 0, 0)
	assert.InDelta(t, 85.0511287798066, lat, 1e-9)
	assert.InDelta(t, -180.0, lon, 1e-9)

	// The SE corner of the world's NW quadrant tile is the origin.
	lat, lon = TileNW(1, 1, 1)
	assert.InDelta(t, 0, lat, 1e-9)
	assert.InDelta(t, 0, lon, 1e-9)
}

func TestRoundTripWithinOneTile(t *testing.T) {
	points := []struct {
		lat, lon float64
	}{
		{52.52, 13.405},
		{-33.8688, 151.2093},
		{40.7128, -74.006},
		{0.01, 0.01},
		{78.2232, 15.6267},
	}

	for _, p := range points {
		for _, zoom := range []int{2, 8, 12, 17} {
			tile := TileAt(p.lat, p.lon, zoom)

			nwLat, nwLon := TileNW(tile.X, tile.Y, zoom)
			seLat, seLon := TileNW(tile.X+1, tile.Y+1, zoom)

			// Truncation places the point somewhere inside its tile, so
			// the recovered NW corner is within one tile span of it.
			assert.GreaterOrEqual(t, p.lon, nwLon, "tile %s", tile)
			assert.Less(t, p.lon, seLon, "tile %s", tile)
			assert.LessOrEqual(t, p.lat, nwLat, "tile %s", tile)
			assert.Greater(t, p.lat, seLat, "tile %s", tile)
		}
	}
}

func TestSemicircleToDegrees(t *testing.T) {
	assert.InDelta(t, 50.29141902923584, SemicircleToDegrees(600000000), 1e-12)
	assert.InDelta(t, 180.0, SemicircleToDegrees(1<<31), 1e-12)
	assert.InDelta(t, -90.0, SemicircleToDegrees(-(1 << 30)), 1e-12)
	assert.Equal(t, 0.0, SemicircleToDegrees(0))
}

func TestTileString(t *testing.T) {
	assert.Equal(t, "17/70416/42985", Tile{Z: 17, X: 70416, Y: 42985}.String())
}
