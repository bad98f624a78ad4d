// cmd/fetch.go - Tile prefetch command
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"osm-tile-plotter/internal/config"
	"osm-tile-plotter/internal/tile"
	"osm-tile-plotter/pkg/slippy"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Prefetch map tiles for an area into the local cache",
	Long: `Fetch downloads every tile covering a geographic bounding box into the
on-disk cache without rendering anything. Tiles already present are skipped;
tiles that fail to download are replaced by blank placeholders.

Examples:
  # Prefetch at the derived zoom level
  osm-tile-plotter fetch --bbox "13.3,52.5,13.5,52.6"

  # Prefetch at a fixed zoom level
  osm-tile-plotter fetch --bbox "13.3,52.5,13.5,52.6" --zoom 15`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("bbox", "", "bounding box as minLon,minLat,maxLon,maxLat")
	fetchCmd.Flags().Int("zoom", 0, "explicit zoom level (0 derives one from the bounding box)")
	fetchCmd.MarkFlagRequired("bbox")
}

func runFetch(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.InitLogger(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := zap.L()

	bboxArg, _ := cmd.Flags().GetString("bbox")
	bound, err := parseBound(bboxArg)
	if err != nil {
		return fmt.Errorf("invalid --bbox: %w", err)
	}

	zoom, _ := cmd.Flags().GetInt("zoom")
	if zoom == 0 {
		zoom, err = slippy.ZoomLevel(bound)
		if err != nil {
			return fmt.Errorf("failed to derive zoom level: %w", err)
		}
	}

	tileRange := tile.RangeForBound(bound, zoom)

	fetcher := tile.NewCachingFetcher(cfg, log)
	results, err := fetcher.FetchRange(tileRange)
	if err != nil {
		return fmt.Errorf("failed to fetch tiles: %w", err)
	}

	fetched, placeholders := 0, 0
	for _, result := range results {
		switch result.Status {
		case tile.StatusFetched:
			fetched++
		case tile.StatusPlaceholder:
			placeholders++
		}
	}

	fmt.Printf("zoom %d: %d tiles fetched, %d placeholders written to %s\n",
		zoom, fetched, placeholders, cfg.Cache.Directory)
	return nil
}

// parseBound parses a minLon,minLat,maxLon,maxLat bounding box argument
func parseBound(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("expected 4 comma-separated values, got %d", len(parts))
	}

	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("invalid coordinate %q: %w", part, err)
		}
		values[i] = v
	}

	bound := orb.Bound{
		Min: orb.Point{values[0], values[1]},
		Max: orb.Point{values[2], values[3]},
	}
	if bound.Min.Lon() > bound.Max.Lon() || bound.Min.Lat() > bound.Max.Lat() {
		return orb.Bound{}, fmt.Errorf("minimum corner exceeds maximum corner")
	}

	return bound, nil
}
