// internal/tile/fetcher_test.go - Unit tests for the caching tile fetcher
package tile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"osm-tile-plotter/internal/config"
	"osm-tile-plotter/pkg/slippy"
)

// testConfig builds a configuration pointing at a test server and cache dir
func testConfig(serverURL, cacheDir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BaseURL:   serverURL,
			UserAgent: "test-agent",
			Timeout:   2 * time.Second,
			MaxTiles:  500,
		},
		Cache: config.CacheConfig{Directory: cacheDir},
	}
}

// tilePNG encodes a solid-color tile image
func tilePNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, slippy.TileSize, slippy.TileSize))
	for y := 0; y < slippy.TileSize; y++ {
		for x := 0; x < slippy.TileSize; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetchStoresTile(t *testing.T) {
	payload := tilePNG(t, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/17/70416/42985.png", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write(payload)
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	fetcher := NewCachingFetcher(testConfig(server.URL, cacheDir), zap.NewNop())

	result, err := fetcher.Fetch(slippy.Tile{Z: 17, X: 70416, Y: 42985})
	require.NoError(t, err)
	assert.Equal(t, StatusFetched, result.Status)

	stored, err := os.ReadFile(filepath.Join(cacheDir, "tile_17_70416_42985.png"))
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestFetchIsIdempotent(t *testing.T) {
	var requests atomic.Int64
	payload := tilePNG(t, color.NRGBA{R: 0, G: 0, B: 200, A: 255})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewCachingFetcher(testConfig(server.URL, t.TempDir()), zap.NewNop())
	coord := slippy.Tile{Z: 12, X: 2200, Y: 1343}

	first, err := fetcher.Fetch(coord)
	require.NoError(t, err)
	assert.Equal(t, StatusFetched, first.Status)

	second, err := fetcher.Fetch(coord)
	require.NoError(t, err)
	assert.Equal(t, StatusFetched, second.Status)

	// The second call is a cache hit: network access happened at most once
	assert.Equal(t, int64(1), requests.Load())
}

func TestFetchWritesPlaceholderOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	fetcher := NewCachingFetcher(testConfig(server.URL, cacheDir), zap.NewNop())

	result, err := fetcher.Fetch(slippy.Tile{Z: 5, X: 3, Y: 7})
	require.NoError(t, err, "fetch failures must not propagate")
	assert.Equal(t, StatusPlaceholder, result.Status)

	// The placeholder is a white tile of the standard size
	file, err := os.Open(filepath.Join(cacheDir, "tile_5_3_7.png"))
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, slippy.TileSize, img.Bounds().Dx())
	assert.Equal(t, slippy.TileSize, img.Bounds().Dy())

	r, g, b, _ := img.At(128, 128).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestFetchPlaceholderOnUnreachableServer(t *testing.T) {
	cacheDir := t.TempDir()
	// Closed port: transport error rather than HTTP status
	cfg := testConfig("http://127.0.0.1:1", cacheDir)
	cfg.Server.Timeout = 500 * time.Millisecond
	fetcher := NewCachingFetcher(cfg, zap.NewNop())

	result, err := fetcher.Fetch(slippy.Tile{Z: 5, X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusPlaceholder, result.Status)
	assert.FileExists(t, filepath.Join(cacheDir, "tile_5_1_1.png"))
}

func TestFetchRange(t *testing.T) {
	var requests atomic.Int64
	payload := tilePNG(t, color.NRGBA{R: 20, G: 120, B: 20, A: 255})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write(payload)
	}))
	defer server.Close()

	cacheDir := filepath.Join(t.TempDir(), "tiles")
	fetcher := NewCachingFetcher(testConfig(server.URL, cacheDir), zap.NewNop())

	r := Range{Zoom: 10, MinX: 100, MaxX: 102, MinY: 200, MaxY: 201}
	results, err := fetcher.FetchRange(r)
	require.NoError(t, err)
	require.Len(t, results, 6)
	assert.Equal(t, int64(6), requests.Load())

	// The cache directory was auto-created and every coordinate is backed
	// by a file
	for _, result := range results {
		assert.Equal(t, StatusFetched, result.Status)
		assert.FileExists(t, result.Path)
	}
}

func TestFetchRangeRejectsExcessiveCount(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	cacheDir := filepath.Join(t.TempDir(), "tiles")
	fetcher := NewCachingFetcher(testConfig(server.URL, cacheDir), zap.NewNop())

	// 501 tiles, one over the ceiling
	r := Range{Zoom: 10, MinX: 0, MaxX: 500, MinY: 0, MaxY: 0}
	_, err := fetcher.FetchRange(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyTiles)

	// Rejected before any download or file write
	assert.Equal(t, int64(0), requests.Load())
	_, statErr := os.Stat(cacheDir)
	assert.True(t, os.IsNotExist(statErr), "cache directory must not be created for a rejected range")
}
