// Package cmd provides the CLI commands for freight-rate.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"freightrate/internal/geo"
	"freightrate/internal/geocache"
	"freightrate/internal/logging"
	"freightrate/internal/modules/distance"
	"freightrate/internal/modules/location"
	"freightrate/internal/refdata"
)

var (
	dataDir    string
	cachePath  string
	mapsAPIKey string
	hubAddress string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "freight-rate",
	Short: "Quote freight rates from the command line",
	Long: `freight-rate prices road, ocean and two-leg overland freight moves
from the local reference tables.

Examples:
  freight-rate quote europe --from-country DE --from-zip 40210 --to-country FR --to-zip 59000 --ldm 5 --weight 1000
  freight-rate quote multimodal --origin CNSHA --destination NLRTM --container 40hc
  freight-rate list ports`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "directory holding the reference tables")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "data/geocode_cache.json", "geocode cache file")
	rootCmd.PersistentFlags().StringVar(&mapsAPIKey, "maps-key", "", "Maps API key (defaults to MAPS_API_KEY; empty disables external lookups)")
	rootCmd.PersistentFlags().StringVar(&hubAddress, "hub", "41400 Gebze Türkiye", "transshipment hub address for overland quotes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

// environment bundles everything a quoting command needs.
type environment struct {
	data      *refdata.Store
	locations *location.Resolver
	distances *distance.Resolver
	log       *zap.Logger
}

func buildEnvironment() (*environment, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := logging.New(logging.Config{Level: level, Format: "console"})

	data, err := refdata.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}

	cache, err := geocache.OpenFile(cachePath)
	if err != nil {
		return nil, fmt.Errorf("opening geocode cache: %w", err)
	}

	apiKey := mapsAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("MAPS_API_KEY")
	}
	var geocoder geo.Geocoder
	var router geo.Router
	if apiKey != "" {
		client, err := geo.NewGoogleClient(apiKey)
		if err != nil {
			return nil, fmt.Errorf("maps client: %w", err)
		}
		geocoder, router = client, client
	}

	return &environment{
		data:      data,
		locations: location.NewResolver(data),
		distances: distance.NewResolver(geocoder, router, cache, data, logger),
		log:       logger,
	}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("freight-rate version 0.1.0")
	},
}
