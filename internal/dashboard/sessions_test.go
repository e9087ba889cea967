package dashboard

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSessions_Ensure(t *testing.T) {
	s := NewSessions(10, time.Hour, Options{})

	id, m, created := s.Ensure("")
	if !created || m == nil {
		t.Fatal("no session created")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("id %q is not a uuid", id)
	}

	id2, m2, created := s.Ensure(id)
	if created || id2 != id || m2 != m {
		t.Fatal("existing session not returned")
	}

	id3, _, created := s.Ensure("not-a-uuid")
	if !created || id3 == "not-a-uuid" {
		t.Fatalf("invalid id accepted: %q", id3)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestSessions_CapacityEvicts(t *testing.T) {
	s := NewSessions(1, time.Hour, Options{})
	first, _, _ := s.Ensure("")
	s.Ensure("")
	if _, ok := s.Get(first); ok {
		t.Error("oldest session survived capacity eviction")
	}
}

func TestSessions_Isolated(t *testing.T) {
	s := NewSessions(10, time.Hour, Options{})
	_, a, _ := s.Ensure("")
	_, b, _ := s.Ensure("")
	a.Load(multiYear)
	a.SelectMonth("2024-02")
	if b.View().SelectedMonth != "" {
		t.Error("selection leaked between sessions")
	}
}
