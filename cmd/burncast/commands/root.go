package commands

import (
	"burncast/internal/config"
	"burncast/internal/logging"
	"burncast/internal/project"
	"burncast/internal/storage/sqlite"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "burncast",
	Short: "Burncast forecasts backlog completion dates with Monte Carlo simulation",
	Long: `Burncast runs Monte Carlo completion forecasts for a backlog, sampling
per-period velocity from several candidate distributions fitted to historical
throughput, and reports confidence percentiles as calendar dates.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Burncast starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// openStore opens the configured project database. The caller closes it.
func openStore() (project.Store, error) {
	return sqlite.Open(cfg.DatabasePath)
}
