package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobtrend/internal/cli"
	"jobtrend/internal/jobs"
)

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the configured source's postings as a {\"searches\": [...]} file",
	Long: `Fetch once from the configured source and write every posting in the
upstream payload shape, to FILE or stdout. The output can be fed back to
'jobsctl import' or used as SEED_FILE.

Examples:
  jobsctl export > snapshot.json
  jobsctl export --backend sheets snapshot.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Duration("timeout", 30*time.Second, "give up on the source after this long")
}

func runExport(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")

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

	var out io.Writer = cmd.OutOrStdout()
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer f.Close()
		out = f
	}
	if err := jobs.EncodeSearches(out, records); err != nil {
		return fmt.Errorf("write postings: %w", err)
	}
	logger.Debug("Exported postings", "source", src.Name, "records", len(records))
	return nil
}
