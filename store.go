// File: store.go
package main

import (
	"context"
	"github.com/google/uuid"
	"shapeCaptcha/internal/challenge"
	"sync"
	"time"
)

const minSweepInterval = time.Second

type storedSession struct {
	session  *challenge.Session
	lastSeen time.Time
}

// Store 按 uuid 保存会话，一个会话对应一次页面加载，空闲的由 Sweep 关闭
type Store struct {
	mu       sync.Mutex
	sessions map[string]*storedSession
	cfg      challenge.Config
	now      func() time.Time
}

func NewStore(cfg challenge.Config) *Store {
	return &Store{
		sessions: make(map[string]*storedSession),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Create starts a new session and returns its id.
func (s *Store) Create(opts ...challenge.Option) (string, *challenge.Session) {
	id := uuid.New().String()
	sess := challenge.NewSession(s.cfg, opts...)
	s.mu.Lock()
	s.sessions[id] = &storedSession{session: sess, lastSeen: s.now()}
	s.mu.Unlock()
	return id, sess
}

// Get returns the session and marks it as used.
func (s *Store) Get(id string) (*challenge.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.session, true
}

// Touch 刷新会话的最后使用时间
func (s *Store) Touch(id string) {
	s.mu.Lock()
	if e, ok := s.sessions[id]; ok {
		e.lastSeen = s.now()
	}
	s.mu.Unlock()
}

// Delete closes and forgets a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		e.session.Close()
	}
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes every session idle for longer than ttl and returns how
// many were removed. A session with a live WebSocket is never idle.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	var stale []*challenge.Session
	s.mu.Lock()
	for id, e := range s.sessions {
		// 页面还开着就不回收
		if ttl >= 0 && e.session.Watched() {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
	for _, sess := range stale {
		sess.Close()
	}
	return len(stale)
}

// Janitor sweeps every ttl/2, but no more than once a second, until ctx
// is done, then closes everything.
func (s *Store) Janitor(ctx context.Context, ttl time.Duration, onSweep func(n int)) {
	tk := time.NewTicker(max(ttl/2, minSweepInterval))
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Sweep(-time.Hour)
			return
		case <-tk.C:
			if n := s.Sweep(ttl); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
