package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"flowdash/internal/modules/session/domain"
	sessionout "flowdash/internal/modules/session/port/out"
)

// asyncMirror writes full-collection snapshots to one backend with at most
// one write in flight. A snapshot arriving mid-write replaces the pending
// one, so a burst of mutations collapses into the latest state. Delivery is
// best effort: failures are logged and never surfaced to the mutation path.
type asyncMirror struct {
	store sessionout.SessionStore
	log   zerolog.Logger

	mu      sync.Mutex
	pending []domain.Session
	queued  bool
	running bool
}

func newAsyncMirror(store sessionout.SessionStore, log zerolog.Logger) *asyncMirror {
	return &asyncMirror{store: store, log: log}
}

func (m *asyncMirror) Write(snapshot []domain.Session) {
	m.mu.Lock()
	m.pending = snapshot
	m.queued = true
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()
	go m.drain()
}

func (m *asyncMirror) drain() {
	for {
		m.mu.Lock()
		if !m.queued {
			m.running = false
			m.mu.Unlock()
			return
		}
		snapshot := m.pending
		m.queued = false
		m.mu.Unlock()

		if err := m.store.ReplaceAll(context.Background(), snapshot); err != nil {
			m.log.Error().Err(err).Str("store", m.store.Name()).Msg("async session write failed")
		}
	}
}
