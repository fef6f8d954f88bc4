package dialog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ukaji3/exbatch-go/internal/observability"
)

// Session is one open dialog.
type Session struct {
	ID     string
	URL    string
	Opened time.Time

	window Window
	owner  *Messenger

	// claimed is set by whichever of message, user close or Close ends
	// the session first.
	claimed atomic.Bool
	once    sync.Once
	done    chan struct{}

	// Written before done is closed.
	message   string
	delivered bool
	closeErr  error
}

func (s *Session) claim() bool {
	return s.claimed.CompareAndSwap(false, true)
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Message returns the relayed message once the session has ended. The
// second result is false while the session is open or when it ended
// without a message.
func (s *Session) Message() (string, bool) {
	select {
	case <-s.done:
		return s.message, s.delivered
	default:
		return "", false
	}
}

// Wait blocks until the session ends or ctx is done.
func (s *Session) Wait(ctx context.Context) (string, error) {
	select {
	case <-s.done:
		if !s.delivered {
			return "", ErrDismissed
		}
		return s.message, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Location returns where the dialog page can be opened.
func (s *Session) Location() string {
	if l, ok := s.window.(Locator); ok {
		return l.Location()
	}
	return s.URL
}

// Close ends the session and closes its window. When a message or the user
// already ended the session, Close waits for that to finish and reports
// its window close error.
func (s *Session) Close() error {
	if !s.claim() {
		<-s.done
		return s.closeErr
	}
	return s.owner.finish(s, observability.DialogCancelled, true)
}
