package dashboard

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"jobtrend/internal/cache"
	"jobtrend/internal/metrics"
)

// Sessions maps browser session ids to their Model. Idle sessions expire
// after ttl and the least recently used one is dropped beyond max.
type Sessions struct {
	models *cache.LRUCache[*Model]
	opts   Options
}

func NewSessions(max int, ttl time.Duration, opts Options) *Sessions {
	s := &Sessions{
		models: cache.NewLRUCache[*Model](max, ttl),
		opts:   opts,
	}
	s.models.OnEvict(func(id string, m *Model) {
		m.Close()
		metrics.SetSessions(s.models.Size())
		slog.Debug("Dashboard session evicted", "session_id", id)
	})
	return s
}

// Ensure returns the Model for id, creating a fresh session when id is
// unknown, expired or not a UUID. The returned id is the one to keep.
func (s *Sessions) Ensure(id string) (string, *Model, bool) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	m, created := s.models.GetOrCreate(id, func() *Model { return NewModel(s.opts) })
	if created {
		metrics.SetSessions(s.models.Size())
	}
	return id, m, created
}

func (s *Sessions) Get(id string) (*Model, bool) {
	return s.models.Get(id)
}

func (s *Sessions) Len() int {
	return s.models.Size()
}

// Cleaner exposes the backing cache for periodic sweeps.
func (s *Sessions) Cleaner() cache.Cleaner {
	return s.models
}
