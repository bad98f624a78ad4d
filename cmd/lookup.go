// cmd/lookup.go - Feature lookup inspection command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"osm-tile-plotter/internal/config"
	"osm-tile-plotter/internal/lookup"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve OSM ids and print what the lookup service returns",
	Long: `Lookup resolves way and node ids through the configured lookup service and
prints the feature class and vertex count for each, without touching the
tile cache. Ids that fail to resolve are reported as empty.

Examples:
  osm-tile-plotter lookup --ways 4611686,4611687
  osm-tile-plotter lookup --nodes 240109189 --lookup-url "https://nominatim.example.org"`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().Int64Slice("ways", nil, "way ids to resolve")
	lookupCmd.Flags().Int64Slice("nodes", nil, "node ids to resolve")
}

func runLookup(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.InitLogger(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := zap.L()

	wayIDs, _ := cmd.Flags().GetInt64Slice("ways")
	nodeIDs, _ := cmd.Flags().GetInt64Slice("nodes")
	if len(wayIDs) == 0 && len(nodeIDs) == 0 {
		return fmt.Errorf("at least one of --ways or --nodes must be specified")
	}

	client := lookup.NewClient(cfg, log)
	data := client.ResolveBatch(cmd.Context(), wayIDs, nodeIDs)

	for _, id := range wayIDs {
		printFeature("way", data.Ways[id])
	}
	for _, id := range nodeIDs {
		printFeature("node", data.Nodes[id])
	}

	fmt.Printf("total: %d way vertices, %d node vertices\n",
		len(data.WayCoords), len(data.NodeCoords))
	return nil
}

// printFeature prints one resolved feature summary line
func printFeature(kind string, feature lookup.Feature) {
	featureType := feature.Type
	if featureType == "" {
		featureType = "(empty)"
	}
	fmt.Printf("%s %d: type=%s vertices=%d\n",
		kind, feature.ID, featureType, len(feature.Coordinates()))
}
