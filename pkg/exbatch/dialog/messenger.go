// Package dialog displays an external page as a modal dialog and relays the
// one message it posts back into a UI element.
//
// Every open dialog is a Session held in a registry keyed by session id.
// A session ends exactly once: when its message was relayed, when the user
// closed the window, or when Close was called.
package dialog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/ukaji3/exbatch-go/internal/idgen"
	"github.com/ukaji3/exbatch-go/internal/observability"
)

// DialogHost displays dialogs.
type DialogHost interface {
	Display(ctx context.Context, url string, opts DisplayOptions) (Window, error)
}

// Window is one displayed dialog. Handlers may be invoked on any goroutine.
type Window interface {
	// OnMessage registers the handler for messages posted by the page. The
	// handler's error tells the page its message was not relayed.
	OnMessage(fn func(message string) error)
	// OnClosed registers the handler for the user closing the window.
	OnClosed(fn func())
	// Close closes the window from this side. It does not invoke the
	// OnClosed handler.
	Close() error
}

// Locator is implemented by windows that can tell where the page is served.
type Locator interface {
	Location() string
}

// TextSink is the UI surface that receives relayed messages.
type TextSink interface {
	SetText(elementID, text string) error
}

type Messenger struct {
	host   DialogHost
	sink   TextSink
	opts   Options
	logger zerolog.Logger

	// openMu serializes Open so the overlap check and the registration of
	// the new session are one step.
	openMu   sync.Mutex
	mu       sync.Mutex
	sessions map[string]*Session
	latest   *Session
}

func NewMessenger(host DialogHost, sink TextSink, opts Options, logger zerolog.Logger) *Messenger {
	return &Messenger{
		host:     host,
		sink:     sink,
		opts:     opts,
		logger:   logger.With().Str("component", "dialog").Logger(),
		sessions: make(map[string]*Session),
	}
}

// Open displays the configured page and registers the message handler of
// the new session. A display failure is logged and returned as a
// *DisplayError.
func (m *Messenger) Open(ctx context.Context) (*Session, error) {
	if err := m.opts.Validate(); err != nil {
		return nil, err
	}
	m.openMu.Lock()
	defer m.openMu.Unlock()

	if prev := m.Active(); prev != nil {
		if m.opts.Overlap != OverlapReplace {
			observability.RecordDialogEvent(observability.DialogRejected)
			m.logger.Warn().Str("session", prev.ID).Msg("dialog already open")
			return nil, ErrSessionActive
		}
		if err := prev.Close(); err != nil {
			m.logger.Warn().Err(err).Str("session", prev.ID).Msg("close replaced dialog")
		}
		observability.RecordDialogEvent(observability.DialogReplaced)
	}

	id, err := idgen.SessionID()
	if err != nil {
		return nil, err
	}
	win, err := m.host.Display(ctx, m.opts.URL, m.opts.Display)
	if err != nil {
		observability.RecordDialogEvent(observability.DialogFailed)
		m.logger.Error().Err(err).Str("url", m.opts.URL).Msg("dialog display failed")
		return nil, &DisplayError{URL: m.opts.URL, Err: err}
	}

	s := &Session{
		ID:     id,
		URL:    m.opts.URL,
		Opened: time.Now(),
		window: win,
		owner:  m,
		done:   make(chan struct{}),
	}
	m.mu.Lock()
	m.sessions[id] = s
	m.latest = s
	m.mu.Unlock()

	win.OnMessage(func(message string) error {
		err := m.ProcessMessage(id, message)
		if err != nil {
			m.logger.Warn().Err(err).Str("session", id).Msg("dialog message dropped")
		}
		return err
	})
	win.OnClosed(func() {
		if s.claim() {
			m.finish(s, observability.DialogDismissed, false)
		}
	})

	observability.RecordDialogEvent(observability.DialogOpened)
	m.logger.Info().Str("session", id).Str("url", s.Location()).Msg("dialog opened")
	return s, nil
}

// ProcessMessage writes message into the configured element and closes
// the session. Only the first message of a session is relayed.
func (m *Messenger) ProcessMessage(id, message string) error {
	s, ok := m.Session(id)
	if !ok {
		return ErrUnknownSession
	}
	if !s.claim() {
		return ErrSessionClosed
	}
	err := m.sink.SetText(m.opts.Element, message)
	if err != nil {
		m.logger.Error().Err(err).Str("session", id).Str("element", m.opts.Element).Msg("relay dialog message")
	} else {
		s.message = message
		s.delivered = true
		observability.RecordDialogEvent(observability.DialogMessage)
	}
	if cerr := m.finish(s, observability.DialogClosed, true); err == nil {
		err = cerr
	}
	return err
}

// Session returns the open session with the given id.
func (m *Messenger) Session(id string) (*Session, bool) {
	if !idgen.IsSessionID(id) {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Active returns the most recently opened session that is still open.
func (m *Messenger) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == nil {
		return nil
	}
	if _, ok := m.sessions[m.latest.ID]; !ok {
		return nil
	}
	return m.latest
}

// Len returns the number of open sessions.
func (m *Messenger) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// finish releases s exactly once, closing its window when closeWindow is set.
func (m *Messenger) finish(s *Session, event string, closeWindow bool) error {
	s.once.Do(func() {
		m.mu.Lock()
		if m.sessions[s.ID] == s {
			delete(m.sessions, s.ID)
		}
		m.mu.Unlock()

		if closeWindow {
			s.closeErr = s.window.Close()
		}
		close(s.done)
		if event != observability.DialogClosed {
			observability.RecordDialogEvent(event)
		}
		observability.RecordDialogEvent(observability.DialogClosed)
		m.logger.Info().
			Str("session", s.ID).
			Str("reason", event).
			Bool("delivered", s.delivered).
			Dur("open_for", time.Since(s.Opened)).
			Msg("dialog closed")
	})
	return s.closeErr
}
