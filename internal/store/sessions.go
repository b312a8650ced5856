package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/ledger"
	"github.com/murlisonii/NiveshSaathi/internal/risk"
	"github.com/shopspring/decimal"
)

// Session bundles the per-session state: the portfolio ledger and the
// risk questionnaire. One session maps to one browser tab's simulated
// trading arena; nothing is persisted across restarts.
type Session struct {
	ID            string
	Ledger        *ledger.Ledger
	Questionnaire *risk.Questionnaire
	CreatedAt     time.Time

	lastActive time.Time // guarded by the store mutex
}

// SessionStore is a thread-safe in-memory store for sessions, keyed by
// session id. It also fans price ticks out to every session's ledger,
// implementing the feed's listener interface. Idle sessions are
// reclaimed by the background sweeper.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	initialCash decimal.Decimal
	seed        []domain.Holding
}

// NewSessionStore creates an empty SessionStore. New sessions start
// with the given cash balance and seed portfolio.
func NewSessionStore(initialCash decimal.Decimal, seed []domain.Holding) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*Session),
		initialCash: initialCash,
		seed:        seed,
	}
}

// Create registers a new session seeded from the given quote view.
func (s *SessionStore) Create(quotes []domain.Instrument) *Session {
	now := time.Now()
	sess := &Session{
		ID:            uuid.NewString(),
		Ledger:        ledger.New(s.initialCash, quotes, s.seed),
		Questionnaire: risk.NewQuestionnaire(),
		CreatedAt:     now,
		lastActive:    now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// Get retrieves a session by id and marks it active. It returns
// domain.ErrSessionNotFound if the session does not exist.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess.lastActive = time.Now()
	return sess, nil
}

// Count returns the number of active sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions that have been idle for longer than ttl and
// returns how many were removed.
func (s *SessionStore) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastActive.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper launches a background goroutine that evicts idle
// sessions at the configured interval. It stops when ctx is cancelled.
func (s *SessionStore) StartSweeper(ctx context.Context, interval, ttl time.Duration, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(ttl); n > 0 {
					logger.Info("evicted idle sessions", slog.Int("count", n))
				}
			}
		}
	}()
}

// OnTick applies a fresh quote snapshot to every session's ledger.
func (s *SessionStore) OnTick(quotes []domain.Instrument) {
	s.mu.RLock()
	ledgers := make([]*ledger.Ledger, 0, len(s.sessions))
	for _, sess := range s.sessions {
		ledgers = append(ledgers, sess.Ledger)
	}
	s.mu.RUnlock()

	for _, l := range ledgers {
		l.ApplyPriceUpdate(quotes)
	}
}
