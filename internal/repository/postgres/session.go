package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	selectSessionQuery = `SELECT sess FROM sessions WHERE sid=$1 AND expire > NOW()`
	upsertSessionQuery = `
INSERT INTO sessions(sid, sess, expire) VALUES ($1, $2, $3)
ON CONFLICT (sid) DO UPDATE SET sess = EXCLUDED.sess, expire = EXCLUDED.expire`
	deleteSessionQuery   = `DELETE FROM sessions WHERE sid=$1`
	resetSessionsQuery   = `DELETE FROM sessions`
	expiredSessionsQuery = `DELETE FROM sessions WHERE expire <= NOW()`
)

// sessionNoExpiry stands in for "never expires" since the column is NOT NULL.
const sessionNoExpiry = 100 * 365 * 24 * time.Hour

// SessionStorage keeps HTTP session payloads in the sessions table. Its method
// set satisfies fiber.Storage.
type SessionStorage struct {
	p          *Postgres
	gcInterval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newSessionStorage(p *Postgres, gcInterval time.Duration) *SessionStorage {
	return &SessionStorage{p: p, gcInterval: gcInterval}
}

// Sessions returns the session store backed by this database.
func (p *Postgres) Sessions() *SessionStorage {
	return p.sessions
}

func (s *SessionStorage) queryCtx() (context.Context, context.CancelFunc) {
	timeout := s.p.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return context.WithTimeout(s.p.baseCtx, timeout)
}

// Get returns the payload for key, or nil when it is missing or expired.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.queryCtx()
	defer cancel()

	var payload []byte
	if err := s.p.db.QueryRow(ctx, selectSessionQuery, key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return payload, nil
}

// Set stores val under key for exp; zero exp keeps it until deleted.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if exp <= 0 {
		exp = sessionNoExpiry
	}
	ctx, cancel := s.queryCtx()
	defer cancel()

	if _, err := s.p.db.Exec(ctx, upsertSessionQuery, key, val, time.Now().Add(exp)); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key succeeds.
func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.queryCtx()
	defer cancel()

	if _, err := s.p.db.Exec(ctx, deleteSessionQuery, key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Reset removes every session.
func (s *SessionStorage) Reset() error {
	ctx, cancel := s.queryCtx()
	defer cancel()

	if _, err := s.p.db.Exec(ctx, resetSessionsQuery); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

// Close stops expired session collection. The pool is owned by Postgres.
func (s *SessionStorage) Close() error {
	s.stop()
	return nil
}

func (s *SessionStorage) start() {
	if s.gcInterval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(s.p.baseCtx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(s.gcInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.collect()
			}
		}
	}(s.done)
}

func (s *SessionStorage) stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *SessionStorage) collect() {
	ctx, cancel := s.queryCtx()
	defer cancel()

	tag, err := s.p.db.Exec(ctx, expiredSessionsQuery)
	if err != nil {
		s.p.log.Warnw("session gc failed", "err", err)
		return
	}
	if n := tag.RowsAffected(); n > 0 {
		s.p.log.Debugw("expired sessions removed", "count", n)
	}
}
