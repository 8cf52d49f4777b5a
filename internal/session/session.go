// Package session keeps one render.Surface per visitor. The HTTP layer is
// concurrent, the surface is not, so every access goes through the
// session's lock and readers only ever see complete snapshots.
package session

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cristianadrielbraun/qrlogo/internal/encoder"
	"github.com/cristianadrielbraun/qrlogo/internal/render"
)

// Session is one visitor's surface.
type Session struct {
	ID string

	mu       sync.Mutex
	surface  *render.Surface
	payload  string
	lastSeen time.Time
}

// Snapshot is a consistent read of a session.
type Snapshot struct {
	State        render.State
	Final        image.Image
	Payload      string
	Version      int
	Size         int
	Level        encoder.Level
	SizeFraction float64
	HasLogo      bool
}

func (s *Session) touch(now time.Time) {
	s.lastSeen = now
}

// Encode runs enc for payload. On failure the previous render is kept and
// the error is a *render.EncodeError.
func (s *Session) Encode(enc encoder.Encoder, payload string, level encoder.Level) error {
	req := encoder.DefaultRequest([]byte(payload))
	req.Level = level

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.surface.Encode(enc, req); err != nil {
		return err
	}
	s.payload = payload
	return nil
}

// SetLogo replaces the logo; nil removes it.
func (s *Session) SetLogo(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.SetLogo(img)
}

// SetSizeFraction clamps f and recomposes.
func (s *Session) SetSizeFraction(f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.SetSizeFraction(render.ClampFraction(f))
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.surface.Params()
	snap := Snapshot{
		State:        s.surface.State(),
		Final:        s.surface.Final(),
		Payload:      s.payload,
		SizeFraction: p.SizeFraction,
		HasLogo:      p.Logo != nil,
	}
	if g := s.surface.Grid(); g != nil {
		snap.Version, snap.Size, snap.Level = g.Version(), g.Size(), g.Level()
	}
	return snap
}

// Store holds sessions in memory and expires idle ones.
type Store struct {
	ttl        time.Duration
	newSurface func() *render.Surface
	log        logrus.FieldLogger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty store. newSurface builds the surface for each
// new session.
func NewStore(ttl time.Duration, newSurface func() *render.Surface, log logrus.FieldLogger) *Store {
	return &Store{
		ttl:        ttl,
		newSurface: newSurface,
		log:        log.WithField("component", "session"),
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

// Get returns the live session with id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if ok {
		s.mu.Lock()
		s.touch(st.now())
		s.mu.Unlock()
	}
	return s, ok
}

// GetOrCreate returns the session with id, creating a fresh one under a new
// id when it does not exist.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := st.Get(id); ok {
		return s, false
	}
	s = &Session{ID: uuid.NewString(), surface: st.newSurface(), lastSeen: st.now()}

	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	st.log.WithFields(logrus.Fields{"session": s.ID, "active": n}).Debug("session created")
	return s, true
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(); n > 0 {
				st.log.WithField("expired", n).Info("expired idle sessions")
			}
		}
	}
}
