// Package worker consumes fetch-cycle notifications published by the
// dashboard and keeps a history of them in SQLite.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jobtrend/internal/amqp"
	"jobtrend/internal/storage"
)

var ErrInvalidMessage = errors.New("invalid jobs loaded message")

// CycleRecorder persists fetch cycles. *storage.SQLiteRepository implements it.
type CycleRecorder interface {
	RecordFetchCycle(ctx context.Context, c storage.FetchCycle) error
}

// CycleWorker handles jobs.loaded messages from AMQP.
type CycleWorker struct {
	recorder CycleRecorder
	now      func() time.Time
}

func NewCycleWorker(recorder CycleRecorder) *CycleWorker {
	return &CycleWorker{recorder: recorder, now: time.Now}
}

// HandleJobsLoaded records one completed cycle. Messages without a cycle
// number are rejected so the consumer nacks them.
func (w *CycleWorker) HandleJobsLoaded(ctx context.Context, msg *amqp.JobsLoadedMessage) error {
	if msg == nil || msg.Cycle == 0 {
		return ErrInvalidMessage
	}

	slog.InfoContext(ctx, "Processing jobs loaded message",
		"source", msg.Source,
		"cycle", msg.Cycle,
		"failed", msg.Failed)

	at := msg.Timestamp
	if at.IsZero() {
		at = w.now()
	}
	c := storage.FetchCycle{
		Source:   msg.Source,
		Cycle:    int64(msg.Cycle),
		Records:  int64(msg.Records),
		Dropped:  int64(msg.Dropped),
		Months:   int64(msg.Months),
		Failed:   msg.Failed,
		LoadedAt: at,
	}
	if err := w.recorder.RecordFetchCycle(ctx, c); err != nil {
		slog.ErrorContext(ctx, "Failed to record fetch cycle",
			"cycle", msg.Cycle,
			"error", err)
		return fmt.Errorf("record cycle: %w", err)
	}

	slog.InfoContext(ctx, "Recorded fetch cycle",
		"source", msg.Source,
		"cycle", msg.Cycle,
		"records", msg.Records)
	return nil
}
