// internal/tile/fetcher.go - Tile fetching implementation
package tile

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"osm-tile-plotter/internal/config"
	"osm-tile-plotter/pkg/slippy"
)

// CachingFetcher downloads raster tiles into a permanent on-disk cache.
// A tile already present on disk is never re-fetched; a tile that cannot be
// downloaded is replaced by a white placeholder so that every coordinate in
// a requested range is backed by a file after a fetch attempt.
type CachingFetcher struct {
	client   *http.Client
	server   *config.ServerConfig
	cacheDir string
	progress bool
	log      *zap.Logger
}

// NewCachingFetcher creates a new caching tile fetcher
func NewCachingFetcher(cfg *config.Config, log *zap.Logger) *CachingFetcher {
	client := &http.Client{
		Timeout: cfg.Server.Timeout,
	}

	return &CachingFetcher{
		client:   client,
		server:   &cfg.Server,
		cacheDir: cfg.Cache.Directory,
		progress: cfg.Logging.Progress,
		log:      log,
	}
}

// Fetch retrieves a single tile into the cache. Transport failures and
// non-success responses are recovered by writing a placeholder; only
// filesystem failures are returned as errors.
func (f *CachingFetcher) Fetch(t slippy.Tile) (Result, error) {
	path := CachePath(f.cacheDir, t)

	// Permanent cache: an existing file is never re-fetched
	if _, err := os.Stat(path); err == nil {
		f.log.Debug("tile cache hit", zap.Stringer("tile", t))
		return Result{Tile: t, Status: StatusFetched, Path: path}, nil
	}

	data, err := f.download(t)
	if err != nil {
		f.log.Warn("tile download failed, writing placeholder",
			zap.Stringer("tile", t),
			zap.Error(err),
		)
		if werr := writePlaceholder(path); werr != nil {
			return Result{Tile: t, Status: StatusNotAttempted}, fmt.Errorf("failed to write placeholder for tile %s: %w", t, werr)
		}
		return Result{Tile: t, Status: StatusPlaceholder, Path: path}, nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return Result{Tile: t, Status: StatusNotAttempted}, fmt.Errorf("failed to write tile %s: %w", t, err)
	}

	f.log.Debug("tile downloaded", zap.Stringer("tile", t), zap.Int("bytes", len(data)))
	return Result{Tile: t, Status: StatusFetched, Path: path}, nil
}

// FetchRange fetches every tile in the range strictly sequentially. The
// range is validated against the configured ceiling before any file is
// written; an oversized range is rejected outright.
func (f *CachingFetcher) FetchRange(r Range) ([]Result, error) {
	if err := r.Validate(f.server.MaxTiles); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", f.cacheDir, err)
	}

	var bar *progressbar.ProgressBar
	if f.progress {
		bar = progressbar.NewOptions(r.Count(),
			progressbar.OptionSetDescription("downloading tiles"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]Result, 0, r.Count())
	for _, t := range r.Tiles() {
		result, err := f.Fetch(t)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return results, nil
}

// download issues the tile server GET and returns the response bytes
func (f *CachingFetcher) download(t slippy.Tile) ([]byte, error) {
	url := fmt.Sprintf("%s/%d/%d/%d.png", f.server.BaseURL, t.Z, t.X, t.Y)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", f.server.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// writePlaceholder writes a white tile of the standard size to path
func writePlaceholder(path string) error {
	img := image.NewNRGBA(image.Rect(0, 0, slippy.TileSize, slippy.TileSize))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
