package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobtrend/internal/core"
	"jobtrend/internal/jobs"
	"jobtrend/internal/report"
	"jobtrend/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Load job postings into the SQLite store",
	Long: `Read a {"searches": [...]} file, the upstream payload shape, and append
its postings to the SQLite database used by DATA_BACKEND=sqlite.

Examples:
  jobsctl import postings.json
  jobsctl import postings.json --replace --db ./data/jobtrend.db`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("replace", false, "empty the table before importing")
	importCmd.Flags().String("db", "", "SQLite database path (default SQLITE_DB_PATH)")
}

func runImport(cmd *cobra.Command, args []string) error {
	replace, _ := cmd.Flags().GetBool("replace")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.SQLiteDBPath
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	records, err := jobs.DecodeSearches(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	n, err := repo.ImportJobs(cmd.Context(), core.SanitizeAll(records), replace)
	if err != nil {
		return err
	}
	total, err := repo.Count(cmd.Context())
	if err != nil {
		return err
	}

	p := report.NewPrinter(cmd.OutOrStdout(), report.ResolveColors(noColor))
	p.Success("Imported %d postings into %s", n, dbPath)
	p.Info("The store now holds %d postings", total)
	return nil
}
