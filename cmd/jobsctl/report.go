package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jobtrend/internal/cli"
	"jobtrend/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print job postings per month",
	Long: `Fetch job postings once from the configured source and print how many
were published each month.

Examples:
  jobsctl report
  jobsctl report --year 2024
  jobsctl report --month 2024-03 --json`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("year", "", "only list the months of this year (YYYY)")
	reportCmd.Flags().String("month", "", "also list the postings of this month (YYYY-MM)")
	reportCmd.Flags().Bool("json", false, "output as JSON")
	reportCmd.Flags().Duration("timeout", 30*time.Second, "give up on the source after this long")
}

func runReport(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetString("year")
	month, _ := cmd.Flags().GetString("month")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	q, err := report.Query{Year: year, Month: month}.Validate()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	src, err := cli.OpenSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	records, err := cli.NewLoader(cfg, src, nil).Jobs(ctx)
	if err != nil {
		return fmt.Errorf("fetch jobs: %w", err)
	}

	r := report.Build(src.Name, records, cli.Parser(cfg), q)
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	report.NewPrinter(cmd.OutOrStdout(), report.ResolveColors(noColor)).Render(r)
	return nil
}
