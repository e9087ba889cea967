package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobtrend/internal/amqp"
	"jobtrend/internal/report"
	"jobtrend/internal/storage"
	"jobtrend/internal/worker"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow fetch notifications published by the dashboard",
	Long: `Connect to AMQP_URL and print one line per completed fetch cycle until
interrupted. With --record every cycle is also stored in SQLite, where
'jobsctl history' can list it.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Bool("record", false, "store each cycle in SQLite")
	watchCmd.Flags().String("db", "", "SQLite database path (default SQLITE_DB_PATH)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	record, _ := cmd.Flags().GetBool("record")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.SQLiteDBPath
	}

	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is not set")
	}

	var w *worker.CycleWorker
	if record {
		repo, err := storage.NewSQLiteRepository(dbPath)
		if err != nil {
			return err
		}
		defer repo.Close()
		w = worker.NewCycleWorker(repo)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := report.NewPrinter(cmd.OutOrStdout(), report.ResolveColors(noColor))
	p.Info("Watching %s on exchange %s", cfg.AMQPRoutingKey, cfg.AMQPExchange)

	err = client.ConsumeJobsLoaded(ctx, func(msg *amqp.JobsLoadedMessage) error {
		printLoaded(p, msg)
		if w != nil {
			return w.HandleJobsLoaded(ctx, msg)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume: %w", err)
	}
	return nil
}

func printLoaded(p *report.Printer, msg *amqp.JobsLoadedMessage) {
	at := msg.Timestamp.Local().Format(time.DateTime)
	if msg.Failed {
		p.Warning("%s cycle %d from %s failed", at, msg.Cycle, msg.Source)
		return
	}
	p.Success("%s cycle %d from %s: %d postings over %d months, %d undated",
		at, msg.Cycle, msg.Source, msg.Records, msg.Months, msg.Dropped)
}
