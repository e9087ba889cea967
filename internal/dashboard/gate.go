package dashboard

import (
	"sync"
	"time"
)

// DefaultLoadingGrace is how long a load may run before the loading
// indicator is shown.
const DefaultLoadingGrace = 150 * time.Millisecond

// LoadingGate runs a callback once after a grace period unless stopped
// first. It only affects presentation.
type LoadingGate struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	fired   bool
}

func StartLoadingGate(grace time.Duration, fn func()) *LoadingGate {
	g := &LoadingGate{}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timer = time.AfterFunc(grace, func() {
		g.mu.Lock()
		if g.stopped {
			g.mu.Unlock()
			return
		}
		g.fired = true
		g.mu.Unlock()
		fn()
	})
	return g
}

// Stop cancels the gate. It reports whether the callback was prevented.
func (g *LoadingGate) Stop() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped || g.fired {
		g.stopped = true
		return false
	}
	g.stopped = true
	g.timer.Stop()
	return true
}

func (g *LoadingGate) Fired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}
