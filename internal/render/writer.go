// internal/render/writer.go - Figure rendering implementation
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"osm-tile-plotter/internal/config"
	"osm-tile-plotter/internal/lookup"
	"osm-tile-plotter/internal/manifest"
	"osm-tile-plotter/internal/tile"
	"osm-tile-plotter/pkg/slippy"
)

// Overlay colors per feature class.
const (
	colorMotorway     = "blue"
	colorMotorwayLink = "green"
	colorHighlight    = "yellow"
)

// Writer renders supertile rasters with vector overlays to SVG figures in
// the configured output directory.
type Writer struct {
	output *config.OutputConfig
	render *config.RenderConfig
	log    *zap.Logger
}

// NewWriter creates a new figure writer
func NewWriter(cfg *config.Config, log *zap.Logger) *Writer {
	return &Writer{
		output: &cfg.Output,
		render: &cfg.Render,
		log:    log,
	}
}

// Render composes the supertile and the resolved features into an SVG
// artifact named after the manifest stem and returns its path. Geographic
// axis extents come from the inverse projection of the range's outer
// corners; the +1 index on the maximum axis selects the south-east corner
// instead of that tile's own NW reference point.
func (w *Writer) Render(super *image.NRGBA, r tile.Range, data *lookup.MapData, ds *manifest.DrawSpec, stem string) (string, error) {
	if err := os.MkdirAll(w.output.Directory, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.output.Directory, err)
	}

	latMin, lonMin := slippy.TileNW(r.MinX, r.MaxY+1, r.Zoom)
	latMax, lonMax := slippy.TileNW(r.MaxX+1, r.MinY, r.Zoom)

	width := super.Bounds().Dx()
	// Uniform vertical stretch at a fixed reference latitude, not the
	// bounding box's actual mean latitude.
	aspect := 1 / math.Cos(w.render.AspectLatitude*math.Pi/180)
	height := int(math.Round(float64(super.Bounds().Dy()) * aspect))

	toX := func(p orb.Point) int {
		return int(math.Round((p.Lon() - lonMin) / (lonMax - lonMin) * float64(width)))
	}
	toY := func(p orb.Point) int {
		return int(math.Round((latMax - p.Lat()) / (latMax - latMin) * float64(height)))
	}

	path := filepath.Join(w.output.Directory, stem+".svg")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create figure %s: %w", path, err)
	}
	defer file.Close()

	canvas := svg.New(file)
	canvas.Start(width, height)

	uri, err := encodeRaster(super)
	if err != nil {
		return "", fmt.Errorf("failed to encode supertile: %w", err)
	}
	canvas.Image(0, 0, width, height, uri)

	markerSize := w.render.MarkerSize
	highlightSize := markerSize / 2
	if highlightSize < 1 {
		highlightSize = 1
	}

	// Way overlays, one dot marker per vertex, colored by feature class
	for _, id := range ds.Ways {
		way := data.Ways[id]

		var fill string
		switch way.Type {
		case "motorway":
			fill = colorMotorway
		case "motorway_link":
			fill = colorMotorwayLink
		default:
			continue
		}

		for _, p := range way.Coordinates() {
			canvas.Circle(toX(p), toY(p), markerSize, "fill:"+fill)
		}
	}

	// Highlighted way vertices
	for _, id := range ds.Ways {
		index, ok := ds.HighlightIndex(id)
		if !ok {
			continue
		}
		coords := data.Ways[id].Coordinates()
		if index < 0 || index >= len(coords) {
			w.log.Warn("highlight index out of range",
				zap.Int64("way", id),
				zap.Int("index", index),
				zap.Int("vertices", len(coords)),
			)
			continue
		}
		p := coords[index]
		canvas.Circle(toX(p), toY(p), highlightSize, "fill:"+colorHighlight)
	}

	// Free-standing point features
	for _, id := range ds.Nodes {
		coords := data.Nodes[id].Coordinates()
		if len(coords) == 0 {
			continue
		}
		p := coords[0]
		canvas.Circle(toX(p), toY(p), highlightSize, "fill:"+colorHighlight)
	}

	canvas.End()

	w.log.Info("figure written",
		zap.String("path", path),
		zap.Int("width", width),
		zap.Int("height", height),
	)

	return path, nil
}

// encodeRaster encodes the supertile as a base64 PNG data URI for embedding
func encodeRaster(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
