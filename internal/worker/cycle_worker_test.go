package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobtrend/internal/amqp"
	"jobtrend/internal/storage"
)

type fakeRecorder struct {
	got []storage.FetchCycle
	err error
}

func (f *fakeRecorder) RecordFetchCycle(_ context.Context, c storage.FetchCycle) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, c)
	return nil
}

func TestHandleJobsLoaded(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := &fakeRecorder{}
	w := NewCycleWorker(rec)

	err := w.HandleJobsLoaded(context.Background(), &amqp.JobsLoadedMessage{
		Source: "remote", Cycle: 7, Records: 40, Dropped: 2, Months: 9, Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("HandleJobsLoaded: %v", err)
	}
	if len(rec.got) != 1 {
		t.Fatalf("recorded %d cycles, want 1", len(rec.got))
	}
	c := rec.got[0]
	if c.Cycle != 7 || c.Records != 40 || c.Dropped != 2 || c.Months != 9 || c.Failed {
		t.Errorf("recorded %+v", c)
	}
	if !c.LoadedAt.Equal(ts) {
		t.Errorf("LoadedAt = %v, want %v", c.LoadedAt, ts)
	}
}

func TestHandleJobsLoaded_DefaultsTimestamp(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &fakeRecorder{}
	w := NewCycleWorker(rec)
	w.now = func() time.Time { return now }

	if err := w.HandleJobsLoaded(context.Background(), &amqp.JobsLoadedMessage{Cycle: 1, Failed: true}); err != nil {
		t.Fatalf("HandleJobsLoaded: %v", err)
	}
	if !rec.got[0].LoadedAt.Equal(now) || !rec.got[0].Failed {
		t.Errorf("recorded %+v", rec.got[0])
	}
}

func TestHandleJobsLoaded_Errors(t *testing.T) {
	tests := []struct {
		name string
		msg  *amqp.JobsLoadedMessage
		err  error
		want error
	}{
		{name: "nil message", msg: nil, want: ErrInvalidMessage},
		{name: "no cycle", msg: &amqp.JobsLoadedMessage{Source: "remote"}, want: ErrInvalidMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{err: tt.err}
			err := NewCycleWorker(rec).HandleJobsLoaded(context.Background(), tt.msg)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(rec.got) != 0 {
				t.Errorf("recorded %d cycles on error", len(rec.got))
			}
		})
	}

	storeErr := errors.New("disk full")
	err := NewCycleWorker(&fakeRecorder{err: storeErr}).HandleJobsLoaded(context.Background(), &amqp.JobsLoadedMessage{Cycle: 3})
	if !errors.Is(err, storeErr) {
		t.Errorf("store failure err = %v", err)
	}
}
