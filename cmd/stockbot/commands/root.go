package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	rulesFile string
	dataDir   string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockbot",
	Short: "Rule-based stock analysis chatbot",
	Long: `stockbot answers questions about listed companies from a local
financial database: scoring verdicts, historical trends, forecasts,
forensic red flags, live prices and broker orders.

Usage:
  go run ./cmd/stockbot [command]

Examples:
  go run ./cmd/stockbot chat
  go run ./cmd/stockbot ask "revenue trend of ITC since 2019"
  go run ./cmd/stockbot serve --port 5000
  go run ./cmd/stockbot rules check rules.yaml`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "rules YAML file (default: embedded rules)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "stock JSON directory (overrides STOCK_DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
