// cmd/root.go - Root command implementation
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "osm-tile-plotter",
	Short: "Plot OSM features on stitched map tile backgrounds",
	Long: `osm-tile-plotter resolves OpenStreetMap way and node ids to geometry through
a Nominatim-style lookup service, downloads the covering slippy-map raster
tiles into a permanent local cache, stitches them into one composite image,
and renders the result with per-class vector overlays to an SVG figure.

Execution is a single sequential pass: one lookup request per id and one
tile download at a time, with failed downloads degrading to blank tiles
rather than aborting the run.

Examples:
  # Render the features named by a manifest
  osm-tile-plotter render route.json

  # Render at an explicit zoom level instead of the derived one
  osm-tile-plotter render route.json --zoom 17

  # Prefetch tiles for an area into the cache
  osm-tile-plotter fetch --bbox "13.3,52.5,13.5,52.6"

  # Inspect what a set of ids resolves to
  osm-tile-plotter lookup --ways 4611686,4611687 --nodes 240109189`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.osm-tile-plotter.yaml)")

	// Endpoint configuration flags
	rootCmd.PersistentFlags().String("base-url", "", "base URL of the tile server")
	rootCmd.PersistentFlags().String("lookup-url", "", "base URL of the feature lookup service")

	// Storage flags
	rootCmd.PersistentFlags().String("cache-dir", "", "directory for the on-disk tile cache")
	rootCmd.PersistentFlags().String("fig-dir", "", "directory for output figures")

	// Limit flags
	rootCmd.PersistentFlags().Int("max-tiles", 0, "maximum number of tiles per request")
	rootCmd.PersistentFlags().Duration("timeout", 0, "network request timeout")

	// Logging flags
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().Bool("progress", true, "show download progress")

	// Bind flags to viper
	viper.BindPFlag("server.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("lookup.base_url", rootCmd.PersistentFlags().Lookup("lookup-url"))
	viper.BindPFlag("cache.directory", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("output.directory", rootCmd.PersistentFlags().Lookup("fig-dir"))
	viper.BindPFlag("server.max_tiles", rootCmd.PersistentFlags().Lookup("max-tiles"))
	viper.BindPFlag("server.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("logging.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("logging.progress", rootCmd.PersistentFlags().Lookup("progress"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".osm-tile-plotter" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".osm-tile-plotter")
	}

	// Environment variables
	viper.SetEnvPrefix("OSM_TILE_PLOTTER")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("logging.verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
