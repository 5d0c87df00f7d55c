package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"homefinance-recurring-service/pkg/logger"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recurrer",
	Short: "Recurring transaction detection tool",
	Long: `Recurrer scans household transaction snapshots for recurring payments
like subscriptions, rent, and regular bills. It groups similar transactions,
infers their cadence, and scores how confident the detection is. Detected
patterns can be confirmed or rejected, and those decisions persist across
runs.

Examples:
  recurrer detect --snapshot-file transactions.csv
  recurrer detect --snapshot-file tx.csv --output-format json --min-confidence Medium
  recurrer confirm 42
  recurrer reject 17`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("feedback-db", defaultFeedbackDBPath(), "path to the feedback database")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("feedback-db", rootCmd.PersistentFlags().Lookup("feedback-db"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	// Read environment variables that match
	viper.SetEnvPrefix("RECURRER")
	viper.AutomaticEnv()

	logger.SetVerbose(viper.GetBool("verbose"))
}

func defaultFeedbackDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "recurrer.db"
	}
	return home + "/.recurrer/feedback.db"
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
