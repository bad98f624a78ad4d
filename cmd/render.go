// cmd/render.go - Manifest rendering command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"osm-tile-plotter/internal/config"
	"osm-tile-plotter/internal/lookup"
	"osm-tile-plotter/internal/manifest"
	"osm-tile-plotter/internal/render"
	"osm-tile-plotter/internal/tile"
	"osm-tile-plotter/pkg/slippy"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <manifest.json>",
	Short: "Render the features named by a manifest onto stitched map tiles",
	Long: `Render resolves every way and node id in the manifest, derives a zoom level
and tile range from the resolved geometry, downloads the covering tiles into
the local cache, stitches them into one composite raster, and writes an SVG
figure named after the manifest to the output directory.

The zoom level is derived from the bounding box of the resolved way
coordinates unless --zoom is given, in which case the explicit value wins.

Examples:
  # Render with the derived zoom level
  osm-tile-plotter render route.json

  # Render at a fixed zoom level
  osm-tile-plotter render route.json --zoom 17

  # Render against a different tile server
  osm-tile-plotter render route.json --base-url "http://b.tile.openstreetmap.org"`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().Int("zoom", 0, "explicit zoom level (0 derives one from the feature bounds)")
}

func runRender(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.InitLogger(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := zap.L()

	// An unreadable manifest aborts the run outright
	ds, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	// Resolve features and derive the covering tile range
	client := lookup.NewClient(cfg, log)
	data := client.ResolveBatch(cmd.Context(), ds.Ways, ds.Nodes)

	bound, err := data.Bounds()
	if err != nil {
		return fmt.Errorf("cannot derive a map area from manifest %s: %w", args[0], err)
	}

	zoom, _ := cmd.Flags().GetInt("zoom")
	if zoom == 0 {
		zoom, err = slippy.ZoomLevel(bound)
		if err != nil {
			return fmt.Errorf("failed to derive zoom level: %w", err)
		}
	}
	log.Info("map area resolved",
		zap.Float64("min_lon", bound.Min.Lon()),
		zap.Float64("max_lon", bound.Max.Lon()),
		zap.Float64("min_lat", bound.Min.Lat()),
		zap.Float64("max_lat", bound.Max.Lat()),
		zap.Int("zoom", zoom),
	)

	tileRange := tile.RangeForBound(bound, zoom)

	// Fetch and stitch the background tiles
	fetcher := tile.NewCachingFetcher(cfg, log)
	if _, err := fetcher.FetchRange(tileRange); err != nil {
		return fmt.Errorf("failed to fetch tiles: %w", err)
	}

	assembler := tile.NewAssembler(cfg, log)
	super, err := assembler.CombineSuperTile(tileRange)
	if err != nil {
		return fmt.Errorf("failed to assemble supertile: %w", err)
	}

	// Render the figure
	writer := render.NewWriter(cfg, log)
	path, err := writer.Render(super, tileRange, data, ds, ds.Stem())
	if err != nil {
		return fmt.Errorf("failed to render figure: %w", err)
	}

	fmt.Println(path)
	return nil
}
