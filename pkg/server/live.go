package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	summonerr "github.com/summon-dev/summon/internal/errors"
	"github.com/summon-dev/summon/pkg/compose"
)

// serveLive upgrades the request and runs a live session for p until the
// connection closes.
func (s *Server) serveLive(w http.ResponseWriter, r *http.Request, p *Page) {
	if !s.sessions.reserve() {
		err := summonerr.New("E062")
		s.logger.Warn("live session rejected", "page", p.name(), "max", s.config.MaxSessions)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.sessions.release()
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	rc := s.renderContext(r, p)
	hr := s.renderer.NewHTMLRenderer(rc)
	sess := &Session{
		id:      id,
		page:    p,
		conn:    conn,
		html:    hr,
		logger:  s.logger.With("session", id, "page", p.name()),
		metrics: s.metrics,
		idle:    s.config.SessionIdleTimeout,
		created: time.Now(),
		events:  make(chan ClientMessage, 16),
		done:    make(chan struct{}),
	}
	opts := s.renderer.Bind(hr, rc, compose.ModeClient)
	opts = append(opts, compose.WithContext(r.Context()), compose.WithLogger(sess.logger))
	sess.rec = compose.NewRecomposer(opts...)

	s.sessions.add(sess)
	defer s.sessions.remove(sess)

	sess.logger.Info("live session opened")
	sess.run(r.Context())
	sess.logger.Info("live session closed", "duration", time.Since(sess.created))
}
