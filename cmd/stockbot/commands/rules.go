package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/opsatya/ved/internal/ruleconfig"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Rules file tools",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a rules YAML file and print its hash",
	Long: `Validates a rules file. Without an argument the --rules flag is used,
and without that the embedded defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := rulesFile
		if len(args) == 1 {
			path = args[0]
		}

		rules, _, err := ruleconfig.Load(path)
		if err != nil {
			return err
		}
		hash, err := ruleconfig.Hash(rules)
		if err != nil {
			return fmt.Errorf("hash rules: %w", err)
		}

		printRulesSummary(cmd.OutOrStdout(), path, rules, hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
}

func printRulesSummary(w io.Writer, path string, rules *ruleconfig.Rules, hash string) {
	if path == "" {
		path = "(embedded)"
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Rules     : %s\n", path)
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
	fmt.Fprintf(w, "  ID        : %s (v%s)\n", rules.Meta.RulesID, rules.Meta.Version)
	fmt.Fprintf(w, "  Hash      : %s\n", hash)
	fmt.Fprintf(w, "  Sectors   : %d penalties\n", len(rules.Risk.SectorPenalties))
	fmt.Fprintf(w, "  Aliases   : %d abbreviations, %d whole-query aliases\n",
		len(rules.Resolution.Abbreviations), len(rules.Resolution.Aliases))
	fmt.Fprintf(w, "  Keywords  : %d auditor, %d cash flow, %d related party\n",
		len(rules.Forensic.AuditorKeywords), len(rules.Forensic.CashFlowKeywords), len(rules.Forensic.RelatedPartyKeywords))
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
	fmt.Fprintln(w, "✅ Rules are valid")
}
