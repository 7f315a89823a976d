// cmd/root.go - Root command implementation
package cmd

import (
	"os"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/shiena/ansicolor"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "parcelmeter",
	Short: "Measure parcel boundaries from GeoJSON tile data",
	Long: `Parcelmeter is a command-line companion to the parcel boundary map: it
measures polygon boundaries (per-edge lengths, perimeter, area), identifies
the likely street-facing edge, converts boundary files between formats, and
prefetches GeoJSON tiles into a local store for offline use.

Examples:
  # Measure a boundary from a GeoJSON feature or ring file
  parcelmeter measure --input parcel.geojson

  # Measure and identify the front boundary
  parcelmeter measure --input parcel.geojson --front

  # Export a GeoJSON boundary to the ring exchange format
  parcelmeter export --input parcel.geojson --output rings.json

  # Prefetch tiles for a bounding box into a local store
  parcelmeter prefetch --base-url "https://example.com/tiles" --bbox "153.39,-28.02,153.42,-27.99" --min-zoom 14 --max-zoom 16 --store tiles.db`,
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
	cobra.OnInitialize(initConfig, initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.parcelmeter.yaml)")

	// Source configuration flags
	rootCmd.PersistentFlags().String("base-url", "", "base URL for the tile server")
	rootCmd.PersistentFlags().String("api-key", "", "API key for tile server authentication")
	rootCmd.PersistentFlags().String("store", "", "path to a local tile store")

	// Processing flags
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "tile request timeout")
	rootCmd.PersistentFlags().Bool("retry-failed-tiles", false, "forget failed tiles so they can be requested again")

	// Bind flags to viper
	viper.BindPFlag("server.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("server.api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("logging.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("server.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("loader.retry_failed_tiles", rootCmd.PersistentFlags().Lookup("retry-failed-tiles"))
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

		// Search config in home directory with name ".parcelmeter" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".parcelmeter")
	}

	// Environment variables
	viper.SetEnvPrefix("PARCELMETER")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("logging.verbose") {
			log.Debugf("using config file: %s", viper.ConfigFileUsed())
		}
	}
}

// initLogging configures the process-wide logger
func initLogging() {
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	log.SetOutput(ansicolor.NewAnsiColorWriter(os.Stderr))

	level, err := log.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		level = log.InfoLevel
	}
	if viper.GetBool("logging.verbose") {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}
