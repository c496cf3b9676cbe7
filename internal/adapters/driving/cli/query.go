package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a compensation question",
	Long: `Retrieves the most relevant post chunks, asks the configured LLM and
prints the answer with structured compensation records and source links.

Output is a table on a terminal and JSON otherwise; --json forces JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	settings, err := settingsSvc()
	if err != nil {
		return err
	}
	pipeline, err := pipelineSvc()
	if err != nil {
		return err
	}

	if err := settings.Validate(); err != nil {
		cmd.Println("Run 'paygrade settings' to fix configuration issues.")
		return err
	}

	session, err := pipeline.Open(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer session.Close() //nolint:errcheck

	result, err := session.Query.Answer(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON || !isTerminal(cmd.OutOrStdout()) {
		return outputQueryJSON(cmd, result)
	}
	outputQueryTable(cmd, result)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func outputQueryJSON(cmd *cobra.Command, result domain.QueryResult) error {
	if result.Records == nil {
		result.Records = []domain.CompensationRecord{}
	}
	if result.SourceLinks == nil {
		result.SourceLinks = []string{}
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, result domain.QueryResult) {
	cmd.Println(result.Summary)
	cmd.Println()

	if len(result.Records) == 0 {
		cmd.Println("No compensation records.")
		return
	}

	cmd.Println("Records:")
	cmd.Println()
	for i := range result.Records {
		r := &result.Records[i]
		// Format: [N] Company - Title (Location)
		cmd.Printf("  [%d] %s - %s (%s)\n", i+1, r.Company, orDash(r.Title), orDash(r.Location))
		cmd.Printf("      Total: %s\n", money(r.TotalCompensation, r.TotalCompensationCurrency))
		cmd.Printf("      Base: %s  Equity: %s  Bonus: %s\n",
			money(r.BaseSalary, r.BaseSalaryCurrency),
			money(r.Equity, r.EquityCurrency),
			money(r.Bonus, r.BonusCurrency))
		if r.Experience != "" && r.Experience != domain.NotSpecified {
			cmd.Printf("      Experience: %s\n", r.Experience)
		}
		cmd.Println()
	}

	if len(result.SourceLinks) > 0 {
		cmd.Println("Sources:")
		for _, link := range result.SourceLinks {
			cmd.Printf("  %s\n", link)
		}
	}
}

func money(amount, currency string) string {
	if amount == "" || amount == domain.NotSpecified {
		return "-"
	}
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}

func orDash(s string) string {
	if s == "" || s == domain.NotSpecified {
		return "-"
	}
	return s
}
