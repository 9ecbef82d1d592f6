package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Completion cache maintenance",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Flush the shared completion cache",
	Long: `Deletes every cached narration from Redis. In-process caches of
running servers are flushed with DELETE /api/cache instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		cache, rc, err := newCompletionCache(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer rc.Close()

		if !rc.Enabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠️  REDIS_ENABLED is false; nothing shared to clear")
			return nil
		}
		if err := cache.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear completion cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Completion cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
