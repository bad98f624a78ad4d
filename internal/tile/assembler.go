// internal/tile/assembler.go - Supertile assembly implementation
package tile

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"

	"osm-tile-plotter/internal/config"
	"osm-tile-plotter/pkg/slippy"
)

// Assembler stitches cached tiles into a single contiguous raster. It reads
// the cache directory without owning it and can be invoked independently of
// fetching: coordinates with no backing file stay black, distinct from the
// white placeholders the fetcher writes after failed downloads.
type Assembler struct {
	cacheDir string
	maxTiles int
	log      *zap.Logger
}

// NewAssembler creates a new supertile assembler
func NewAssembler(cfg *config.Config, log *zap.Logger) *Assembler {
	return &Assembler{
		cacheDir: cfg.Cache.Directory,
		maxTiles: cfg.Server.MaxTiles,
		log:      log,
	}
}

// CombineSuperTile builds one raster sized to the full range, copying the
// RGB channels of every decodable cached tile into its block at pixel
// offset ((y-MinY)*256, (x-MinX)*256). Alpha, if present, is dropped
// against the opaque black background.
func (a *Assembler) CombineSuperTile(r Range) (*image.NRGBA, error) {
	if err := r.Validate(a.maxTiles); err != nil {
		return nil, err
	}

	cols := r.MaxX - r.MinX + 1
	rows := r.MaxY - r.MinY + 1
	super := image.NewNRGBA(image.Rect(0, 0, cols*slippy.TileSize, rows*slippy.TileSize))
	draw.Draw(super, super.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)

	loaded := 0
	for _, t := range r.Tiles() {
		img, err := a.loadTile(t)
		if err != nil {
			a.log.Debug("skipping tile", zap.Stringer("tile", t), zap.Error(err))
			continue
		}

		offset := image.Pt((t.X-r.MinX)*slippy.TileSize, (t.Y-r.MinY)*slippy.TileSize)
		block := image.Rectangle{
			Min: offset,
			Max: offset.Add(image.Pt(slippy.TileSize, slippy.TileSize)),
		}
		draw.Draw(super, block, img, img.Bounds().Min, draw.Over)
		loaded++
	}

	a.log.Debug("supertile assembled",
		zap.Int("loaded", loaded),
		zap.Int("total", r.Count()),
		zap.Int("width", super.Bounds().Dx()),
		zap.Int("height", super.Bounds().Dy()),
	)

	return super, nil
}

// loadTile opens and decodes one cached tile image
func (a *Assembler) loadTile(t slippy.Tile) (image.Image, error) {
	path := CachePath(a.cacheDir, t)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("no cached file for tile %s: %w", t, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile %s: %w", t, err)
	}

	return img, nil
}
