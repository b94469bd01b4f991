package signaling

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// LivenessMonitor runs a sweep on every tick of a fixed interval.
type LivenessMonitor struct {
	clock    clockwork.Clock
	interval time.Duration
	sweep    func() int
	wg       sync.WaitGroup
}

func NewLivenessMonitor(clock clockwork.Clock, interval time.Duration, sweep func() int) *LivenessMonitor {
	return &LivenessMonitor{
		clock:    clock,
		interval: interval,
		sweep:    sweep,
	}
}

// Start runs the monitor in its own goroutine until ctx is cancelled.
func (lm *LivenessMonitor) Start(ctx context.Context) {
	lm.wg.Add(1)
	go func() {
		defer lm.wg.Done()
		lm.run(ctx)
	}()
}

// Wait blocks until a started monitor has returned.
func (lm *LivenessMonitor) Wait() {
	lm.wg.Wait()
}

func (lm *LivenessMonitor) run(ctx context.Context) {
	ticker := lm.clock.NewTicker(lm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if evicted := lm.sweep(); evicted > 0 {
				log.Info().Str("module", "signaling.liveness").Int("evicted", evicted).Msg("evicted unresponsive connections")
			}
		}
	}
}

// Sweep performs one liveness tick. A connection that has not answered the
// previous probe is terminated and unregistered; every other connection is
// marked unanswered and probed. It returns the number of evicted connections.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return 0
	}
	var stale, probe []*Connection
	var departures []*departure
	for _, conn := range m.connections.all() {
		if !conn.alive {
			stale = append(stale, conn)
			if d := m.detachLocked(conn); d != nil {
				departures = append(departures, d)
			}
			m.connections.remove(conn.UserId)
			continue
		}
		conn.alive = false
		probe = append(probe, conn)
	}
	m.updateGaugesLocked()
	m.mu.Unlock()

	for _, conn := range stale {
		conn.Transport.Terminate()
		m.metrics.LivenessEvictions.Inc()
		log.Warn().Str("module", "signaling.liveness").Str("user_id", conn.UserId).Str("connection_id", conn.ID).Msg("liveness timeout")
	}
	for _, d := range departures {
		_ = m.completeDeparture(d, true)
	}
	for _, conn := range probe {
		if err := conn.Transport.Ping(); err != nil {
			log.Debug().Str("module", "signaling.liveness").Str("user_id", conn.UserId).Err(err).Msg("ping failed")
		}
	}
	return len(stale)
}
