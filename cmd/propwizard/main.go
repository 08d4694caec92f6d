package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"property-wizard/internal/console"
	"property-wizard/internal/wizard"
)

var rootCmd = &cobra.Command{
	Use:   "propwizard",
	Short: "Add a property by answering questions in the terminal",
	Long: `Runs the property wizard interactively. Answer each question on its own line.
Type :skip (or "passer") to leave an optional field empty.

Examples:
  propwizard                      # French prompts, fr-CA amounts
  propwizard --locale en-US       # amounts formatted as $1,234.00
  propwizard --json > prop.json   # print the collected record as JSON at the end`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().String("locale", "fr-CA", "BCP 47 locale used to format amounts in the summary")
	rootCmd.Flags().String("currency", "$", "currency symbol shown next to amounts")
	rootCmd.Flags().Bool("json", false, "print the final record as JSON")
}

func run(cmd *cobra.Command, _ []string) error {
	locale, _ := cmd.Flags().GetString("locale")
	currency, _ := cmd.Flags().GetString("currency")
	asJSON, _ := cmd.Flags().GetBool("json")

	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("invalid --locale %q: %w", locale, err)
	}

	w := wizard.NewPropertyWizard(wizard.WithSummaryBuilder(wizard.NewSummaryBuilder(tag, currency)))
	state, err := console.Run(cmd.Context(), w, cmd.InOrStdin(), cmd.ErrOrStderr())
	if errors.Is(err, console.ErrAborted) {
		slog.Warn("wizard aborted", "step", state.Step, "total", state.Total)
		return err
	}
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(state.Record)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
