package dialog

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionActive is returned by Open while another session is open
	// and the overlap policy is OverlapReject.
	ErrSessionActive = errors.New("dialog session already open")
	// ErrSessionClosed is returned when a session already relayed its
	// message or was closed.
	ErrSessionClosed = errors.New("dialog session closed")
	// ErrUnknownSession is returned for ids the messenger never issued or
	// already released.
	ErrUnknownSession = errors.New("unknown dialog session")
	// ErrDismissed is returned by Wait when the dialog closed without a
	// message.
	ErrDismissed = errors.New("dialog closed without a message")
)

// DisplayError is returned when the host refuses to display the dialog.
type DisplayError struct {
	URL string
	Err error
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("display dialog %s: %v", e.URL, e.Err)
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}
