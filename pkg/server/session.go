package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"

	summonerr "github.com/summon-dev/summon/internal/errors"
	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/render"
	"github.com/summon-dev/summon/pkg/vdom"
)

const (
	maxMessageSize = 64 << 10
	writeWait      = 10 * time.Second
)

// Session is a live page: a client-mode composition driven by the events of
// one websocket connection.
type Session struct {
	id      string
	page    *Page
	conn    *websocket.Conn
	rec     *compose.Recomposer
	html    *render.HTMLRenderer
	logger  *slog.Logger
	metrics *Metrics
	idle    time.Duration
	created time.Time

	events    chan ClientMessage
	done      chan struct{}
	closeOnce sync.Once
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Page returns the name of the page the session renders.
func (s *Session) Page() string { return s.page.name() }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.created }

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// closeWith sends a close frame before closing.
func (s *Session) closeWith(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	s.Close()
}

// run composes the page and serves events until the connection closes or
// ctx is done.
func (s *Session) run(ctx context.Context) {
	defer s.Close()
	defer s.rec.Dispose()

	go s.readLoop()

	if err := s.rec.Compose(s.page.Root); err != nil {
		s.logger.Error("live compose failed", "error", err)
		s.sendError(err)
		s.closeWith(websocket.CloseInternalServerErr, "compose failed")
		return
	}
	if err := s.sendRender(); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case msg := <-s.events:
			s.handleMessage(msg)
		case <-s.rec.Dirty():
			s.recompose()
		}
	}
}

// readLoop decodes client messages and queues them for run.
func (s *Session) readLoop() {
	defer s.Close()
	s.conn.SetReadLimit(maxMessageSize)

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.idle))

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("message decode error", "error", err)
			continue
		}

		select {
		case s.events <- msg:
		case <-s.done:
			return
		}
	}
}

func (s *Session) handleMessage(msg ClientMessage) {
	if msg.Type != MessageEvent {
		s.logger.Warn("unknown message type", "type", msg.Type)
		return
	}

	err := s.dispatch(msg)
	s.metrics.ObserveEvent(msg.Event, err == nil)
	if err != nil {
		s.logger.Warn("event failed", "hid", msg.HID, "event", msg.Event, "error", err)
		s.sendError(err)
	}
	if s.rec.Pending() {
		s.recompose()
	}
}

// dispatch invokes the handler registered for the event by the last render.
func (s *Session) dispatch(msg ClientMessage) (err error) {
	key := msg.HID + "_on" + msg.Event
	handler, ok := s.html.Handlers()[key]
	if !ok {
		return summonerr.New("E061").WithDetail(fmt.Sprintf("no %q handler on element %q", msg.Event, msg.HID))
	}

	defer func() {
		if r := recover(); r != nil {
			err = summonerr.New("E060").WithDetail(fmt.Sprintf("%s: panic: %v", key, r))
		}
	}()
	if !vdom.Invoke(handler, vdom.Event{Type: msg.Event, Value: msg.Value, Fields: msg.Fields}) {
		return summonerr.New("E061").WithDetail(fmt.Sprintf("handler %q is not callable", key))
	}
	return nil
}

func (s *Session) recompose() {
	n, err := s.rec.Recompose()
	if err != nil {
		if errors.Is(err, compose.ErrDisposed) {
			return
		}
		s.sendError(err)
	}
	if n > 0 {
		s.sendRender()
	}
}

func (s *Session) sendRender() error {
	markup, err := s.html.Markup(s.rec)
	if err != nil {
		s.logger.Error("markup failed", "error", err)
		return err
	}
	return s.send(ServerMessage{Type: MessageRender, Session: s.id, HTML: markup})
}

func (s *Session) sendError(err error) {
	msg := ServerMessage{Type: MessageError, Session: s.id, Message: err.Error()}
	var se *summonerr.SummonError
	if errors.As(err, &se) {
		msg.Code = se.Code
	}
	s.send(msg)
}

func (s *Session) send(msg ServerMessage) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("write error", "error", err)
		s.Close()
		return err
	}
	return nil
}

// SessionManager tracks open live sessions.
type SessionManager struct {
	sessions *xsync.MapOf[string, *Session]
	count    atomic.Int64
	max      int
	metrics  *Metrics
}

// NewSessionManager creates a registry admitting at most max sessions. Zero
// means no limit.
func NewSessionManager(max int, metrics *Metrics) *SessionManager {
	return &SessionManager{
		sessions: xsync.NewMapOf[string, *Session](),
		max:      max,
		metrics:  metrics,
	}
}

// reserve claims a slot for a new session.
func (m *SessionManager) reserve() bool {
	for {
		n := m.count.Load()
		if m.max > 0 && n >= int64(m.max) {
			return false
		}
		if m.count.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (m *SessionManager) release() {
	m.count.Add(-1)
}

func (m *SessionManager) add(s *Session) {
	m.sessions.Store(s.id, s)
	m.metrics.liveSessions.Inc()
}

func (m *SessionManager) remove(s *Session) {
	m.release()
	if _, ok := m.sessions.LoadAndDelete(s.id); ok {
		m.metrics.liveSessions.Dec()
	}
}

// Get returns the session with the given id.
func (m *SessionManager) Get(id string) (*Session, bool) {
	return m.sessions.Load(id)
}

// Count returns the number of open sessions.
func (m *SessionManager) Count() int {
	return m.sessions.Size()
}

// CloseAll closes every open session and returns how many were closed.
func (m *SessionManager) CloseAll() int {
	n := 0
	m.sessions.Range(func(_ string, s *Session) bool {
		s.closeWith(websocket.CloseGoingAway, "server shutting down")
		n++
		return true
	})
	return n
}
