package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsatya/ved/internal/store"
	"github.com/opsatya/ved/pkg/database"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Stock data management",
}

var dataImportCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Upsert stock JSON files into PostgreSQL",
	Long: `Reads every *.json stock file in dir (default STOCK_DATA_DIR) and
upserts it into stock_financials, creating the table when missing.
Requires DATABASE_URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		dir := cfg.Data.Dir
		if len(args) == 1 {
			dir = args[0]
		}
		if cfg.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for data import")
		}

		stocks, err := store.NewJSONDirLoader(dir, log).Load(ctx)
		if err != nil {
			return err
		}

		db, err := database.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		pg := store.NewPostgresLoader(db.Pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		n, err := pg.SaveBatch(ctx, stocks)
		if err != nil {
			return fmt.Errorf("imported %d of %d stocks: %w", n, len(stocks), err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported %d stocks from %s\n", n, dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataImportCmd)
}
