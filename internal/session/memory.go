package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lotesmx/leadbot/internal/models"
)

// Default idle-expiry configuration for the in-memory backend.
const (
	// DefaultIdleTTL is how long a silent session survives before the
	// sweeper drops it. Zero disables expiry.
	DefaultIdleTTL = 12 * time.Hour
	// DefaultSweepInterval is how often the sweeper scans for idle sessions.
	DefaultSweepInterval = 5 * time.Minute
)

// Opts holds configuration options for the in-memory store.
type Opts struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// Option defines a configuration option for the in-memory store.
type Option func(*Opts)

// WithIdleTTL sets how long an idle session is retained. Zero disables the
// sweeper entirely.
func WithIdleTTL(d time.Duration) Option {
	return func(o *Opts) { o.IdleTTL = d }
}

// WithSweepInterval sets how often idle sessions are scanned for.
func WithSweepInterval(d time.Duration) Option {
	return func(o *Opts) { o.SweepInterval = d }
}

// MemoryStore keeps sessions in a mutex-guarded map for the lifetime of the
// process. A background sweeper drops sessions idle past the configured TTL.
//
// Activity timestamps live in a store-owned map, not on the session: the
// engine mutates the live *Session without holding the store mutex, so the
// sweeper must never read session fields. GetOrCreate refreshes the
// timestamp, which also keeps the sweeper off a session whose event is
// still being handled.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*models.Session
	lastActive map[string]time.Time

	idleTTL time.Duration
	done    chan struct{}
	stopped sync.Once
}

// NewMemoryStore creates an in-memory session store and, when an idle TTL is
// configured, starts its expiry sweeper.
func NewMemoryStore(opts ...Option) *MemoryStore {
	cfg := Opts{IdleTTL: DefaultIdleTTL, SweepInterval: DefaultSweepInterval}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &MemoryStore{
		sessions:   make(map[string]*models.Session),
		lastActive: make(map[string]time.Time),
		idleTTL:    cfg.IdleTTL,
		done:       make(chan struct{}),
	}
	if cfg.IdleTTL > 0 {
		go s.sweep(cfg.SweepInterval)
	}
	slog.Debug("MemoryStore created", "idle_ttl", cfg.IdleTTL, "sweep_interval", cfg.SweepInterval)
	return s
}

// GetOrCreate returns the live session for userID, creating one on first
// contact.
func (s *MemoryStore) GetOrCreate(ctx context.Context, userID string) (*models.Session, error) {
	if userID == "" {
		return nil, models.ErrEmptyUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, exists := s.sessions[userID]
	if !exists {
		sess = models.NewSession(userID)
		s.sessions[userID] = sess
		slog.Debug("MemoryStore created session", "user_id", userID)
	}
	s.lastActive[userID] = time.Now()
	return sess, nil
}

// Save updates the activity timestamp. The engine mutates the live pointer,
// so there is nothing else to persist in this backend.
func (s *MemoryStore) Save(ctx context.Context, sess *models.Session) error {
	if sess == nil || sess.UserID == "" {
		return models.ErrEmptyUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive[sess.UserID] = time.Now()
	return nil
}

// Reset restores the visitor's session to its initial values.
func (s *MemoryStore) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return models.ErrEmptyUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, exists := s.sessions[userID]; exists {
		sess.Clear()
	} else {
		s.sessions[userID] = models.NewSession(userID)
	}
	s.lastActive[userID] = time.Now()
	slog.Debug("MemoryStore reset session", "user_id", userID)
	return nil
}

// Len reports how many sessions are currently held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stop terminates the sweeper.
func (s *MemoryStore) Stop() error {
	s.stopped.Do(func() { close(s.done) })
	return nil
}

// sweep periodically drops sessions whose last activity is older than the
// idle TTL.
func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.idleTTL)
			s.mu.Lock()
			var dropped int
			for userID, last := range s.lastActive {
				if last.Before(cutoff) {
					delete(s.sessions, userID)
					delete(s.lastActive, userID)
					dropped++
				}
			}
			s.mu.Unlock()
			if dropped > 0 {
				slog.Info("MemoryStore swept idle sessions", "dropped", dropped)
			}
		}
	}
}
