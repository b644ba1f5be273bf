package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/geoforge/geoedit/assets"
	"github.com/geoforge/geoedit/internal/config"
	"github.com/geoforge/geoedit/internal/geodata"
	"github.com/geoforge/geoedit/internal/pipeline"
)

// Session is one editing session: a single live dataset plus its own lock,
// so merge and export calls against the same dataset are serialized. A new
// upload replaces the session's dataset wholesale.
type Session struct {
	ID string

	mu       sync.Mutex
	dataset  *geodata.Dataset
	lastSeen time.Time
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config     *config.Config
	Pipeline   *pipeline.Pipeline
	ViewerHTML []byte

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewServerContext initializes the context: it minifies the embedded editor
// page and prepares the session registry.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	page, err := minifyViewer()
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("page_bytes", len(page)).
		Int64("max_upload_mb", cfg.MaxUploadMB).
		Int("session_ttl_minutes", cfg.SessionTTLMinutes).
		Msg("Server context initialized")

	return &ServerContext{
		Config:     cfg,
		Pipeline:   &pipeline.Pipeline{ScratchDir: cfg.ScratchDir},
		ViewerHTML: page,
		sessions:   make(map[string]*Session),
	}, nil
}

// minifyViewer shrinks the embedded page, inline styles and scripts included.
func minifyViewer() ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	return m.Bytes("text/html", assets.Viewer)
}

// newSession registers a session owning ds and returns it. Registration
// doubles as the sweep point for expired sessions.
func (s *ServerContext) newSession(ds *geodata.Dataset) *Session {
	sess := &Session{ID: uuid.NewString(), dataset: ds, lastSeen: time.Now()}

	s.mu.Lock()
	s.sweepLocked()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Debug().Str("session", sess.ID).Int("features", ds.FeatureCount()).Msg("Session opened")

	return sess
}

// session looks up a live session and refreshes its idle timer. Every
// lookup sweeps first, so an expired session is gone even when it is the
// one being asked for.
func (s *ServerContext) session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sess := s.sessions[id]
	if sess != nil {
		sess.lastSeen = time.Now()
	}
	return sess
}

// sweepLocked drops sessions idle beyond the configured TTL. Callers hold
// s.mu.
func (s *ServerContext) sweepLocked() {
	ttl := time.Duration(s.Config.SessionTTLMinutes) * time.Minute
	for id, sess := range s.sessions {
		if time.Since(sess.lastSeen) > ttl {
			delete(s.sessions, id)
			log.Debug().Str("session", id).Msg("Session expired")
		}
	}
}
