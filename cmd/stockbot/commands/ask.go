package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsatya/ved/internal/render"
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Answer one query and exit",
	Example: `  go run ./cmd/stockbot ask "forensic analysis of ITC Limited"
  go run ./cmd/stockbot ask place buy order for 10 shares of HDFC Bank`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style := render.Terminal
		if plainOutput {
			style = render.Plain
		}

		a, err := bootstrap(cmd.Context(), style)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), a.router.Process(cmd.Context(), strings.Join(args, " ")))
		return nil
	},
}

var plainOutput bool

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&plainOutput, "plain", false, "disable ANSI styling")
}
