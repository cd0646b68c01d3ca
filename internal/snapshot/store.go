// Package snapshot caches the loaded application snapshot so repeated
// queries do not hit the source on every request.
package snapshot

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/icon-pbg/icon-go/internal/adapters"
	"github.com/icon-pbg/icon-go/internal/database"
)

// DefaultTTL matches the dashboard's five minute cache.
const DefaultTTL = 300 * time.Second

// Config configures a Store.
type Config struct {
	Source  adapters.Source
	Options database.LoadOptions
	// TTL of zero uses DefaultTTL; negative disables caching.
	TTL    time.Duration
	Logger *log.Logger
	// Now is the clock; tests replace it.
	Now func() time.Time
}

// Store hands out immutable snapshots, reloading when the cached one is
// older than the TTL. It is safe for concurrent use.
type Store struct {
	source  adapters.Source
	options database.LoadOptions
	ttl     time.Duration
	logger  *log.Logger
	now     func() time.Time

	mu        sync.Mutex
	current   *database.Database
	fetchedAt time.Time
	lastErr   error
}

// New creates a store.
func New(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		source:  cfg.Source,
		options: cfg.Options,
		ttl:     ttl,
		logger:  logger,
		now:     now,
	}
}

// Current returns the cached snapshot when fresh, otherwise reloads. When a
// reload fails and an older snapshot exists, the older one is served.
func (s *Store) Current(ctx context.Context) (*database.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.ttl > 0 && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.current, nil
	}
	return s.reload(ctx)
}

// Refresh forces a reload.
func (s *Store) Refresh(ctx context.Context) (*database.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx)
}

// reload must be called with mu held.
func (s *Store) reload(ctx context.Context) (*database.Database, error) {
	db, err := adapters.Load(ctx, s.source, s.options)
	if err != nil {
		s.lastErr = err
		if s.current != nil {
			s.logger.Printf("snapshot reload failed, serving snapshot %s from %s: %v",
				s.current.ID(), s.fetchedAt.Format(time.RFC3339), err)
			return s.current, nil
		}
		return nil, err
	}

	s.current = db
	s.fetchedAt = s.now()
	s.lastErr = nil
	s.logger.Printf("loaded snapshot %s: %d applications from %s", db.ID(), db.Len(), s.source.Name())
	return db, nil
}

// Status describes the cache state.
type Status struct {
	SnapshotID string    `json:"snapshot_id,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
	Stale      bool      `json:"stale"`
	LastError  string    `json:"last_error,omitempty"`
}

// Status reports the cached snapshot and the last reload error.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{FetchedAt: s.fetchedAt}
	if s.current != nil {
		st.SnapshotID = s.current.ID()
		st.Stale = s.ttl <= 0 || s.now().Sub(s.fetchedAt) >= s.ttl || s.lastErr != nil
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}
