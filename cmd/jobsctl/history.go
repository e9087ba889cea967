package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"jobtrend/internal/report"
	"jobtrend/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List fetch cycles recorded by 'jobsctl watch --record'",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 20, "number of cycles to show")
	historyCmd.Flags().String("db", "", "SQLite database path (default SQLITE_DB_PATH)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.SQLiteDBPath
	}

	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	cycles, err := repo.RecentFetchCycles(cmd.Context(), limit)
	if err != nil {
		return err
	}

	p := report.NewPrinter(cmd.OutOrStdout(), report.ResolveColors(noColor))
	if len(cycles) == 0 {
		p.Info("No fetch cycles recorded")
		return nil
	}

	rows := make([][]string, 0, len(cycles))
	for _, c := range cycles {
		status := "ok"
		if c.Failed {
			status = "failed"
		}
		rows = append(rows, []string{
			c.LoadedAt.Local().Format(time.DateTime),
			c.Source,
			strconv.FormatInt(c.Cycle, 10),
			status,
			strconv.FormatInt(c.Records, 10),
			strconv.FormatInt(c.Months, 10),
			strconv.FormatInt(c.Dropped, 10),
		})
	}
	p.Header("Recent fetch cycles")
	p.Table([]string{"LOADED", "SOURCE", "CYCLE", "STATUS", "POSTINGS", "MONTHS", "UNDATED"}, rows)
	return nil
}
