package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unimoddb"
	"unimoddb/internal/config"
	"unimoddb/internal/logging"
)

var (
	feedFlag    string
	cacheFlag   string
	formatFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "unimoddb",
	Short: "Query the Unimod protein modification database",
	Long: `unimoddb answers lookups against the Unimod database of protein
modifications: mass deltas by name or identifier, names by mass, elemental
compositions, and bulk site listings.

The XML feed is parsed once into a SQLite cache; point --cache at a file to
reuse the cache across runs.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&feedFlag, "feed", "",
		"Unimod XML feed path (.xml or .xml.gz)")
	rootCmd.PersistentFlags().StringVar(&cacheFlag, "cache", "",
		"SQLite cache path (default: in-memory, rebuilt each run)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "human",
		"Output format (json, yaml, human)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Log engine activity to stderr")
}

// newLogger builds the CLI logger honoring --verbose and the config file
func newLogger(cfg *config.Config) *logging.Logger {
	if !verboseFlag {
		return logging.NewDiscard()
	}
	return logging.New(
		logging.DebugLevel,
		logging.Format(cfg.Logging.Format),
		os.Stderr,
	)
}

// mustOpenDB loads configuration, applies flag overrides, and constructs the
// engine. Flags beat environment, environment beats file.
func mustOpenDB() *unimoddb.DB {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if feedFlag != "" {
		cfg.FeedPath = feedFlag
	}
	if cacheFlag != "" {
		cfg.CachePath = cacheFlag
	}

	db, err := unimoddb.NewFromConfig(cfg, newLogger(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening Unimod database: %v\n", err)
		os.Exit(1)
	}
	return db
}

// parseMassType maps the CLI flag value onto a mass type, leaving validation
// of unknown values to the engine so errors surface uniformly
func parseMassType(s string) unimoddb.MassType {
	return unimoddb.MassType(s)
}
