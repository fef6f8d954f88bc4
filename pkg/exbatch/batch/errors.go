package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrBatchClosed is returned when a batch is used after Sync.
	ErrBatchClosed = errors.New("batch already synchronized")
	// ErrNotLoaded is returned when a loaded value is read before Sync succeeds.
	ErrNotLoaded = errors.New("value not loaded: call Sync first")
	// ErrForeignHandle is recorded when a handle from another batch is passed in.
	ErrForeignHandle = errors.New("handle belongs to a different batch")
)

// ErrorCode classifies a host rejection.
type ErrorCode string

const (
	CodeItemNotFound      ErrorCode = "ItemNotFound"
	CodeItemAlreadyExists ErrorCode = "ItemAlreadyExists"
	CodeInvalidArgument   ErrorCode = "InvalidArgument"
	CodeInvalidReference  ErrorCode = "InvalidReference"
	CodeInvalidOperation  ErrorCode = "InvalidOperation"
	CodeUnsupported       ErrorCode = "ApiNotFound"
	CodeGeneralException  ErrorCode = "GeneralException"
)

// SyncError is returned by Sync when the host rejects a command. The whole
// batch was discarded.
type SyncError struct {
	Code    ErrorCode
	Message string
	// Index is the position of the failing command in the queue, or -1 when
	// the failure happened while committing.
	Index int
	// Op is the failing command's operation name.
	Op string
	// Statement renders the failing command.
	Statement string
	Err       error
}

// Errorf builds a SyncError with no location. Hosts return it from command
// handlers and the location is filled in by Locate.
func Errorf(code ErrorCode, format string, args ...any) *SyncError {
	return &SyncError{Code: code, Message: fmt.Sprintf(format, args...), Index: -1}
}

// Wrap converts err into a SyncError, keeping an existing one.
func Wrap(err error) *SyncError {
	var se *SyncError
	if errors.As(err, &se) {
		return se
	}
	return &SyncError{Code: CodeGeneralException, Message: err.Error(), Index: -1, Err: err}
}

// Locate records where in the queue the error occurred.
func (e *SyncError) Locate(index int, cmd Command) *SyncError {
	e.Index = index
	if cmd != nil {
		e.Op = cmd.Op()
		e.Statement = Render(cmd)
	}
	return e
}

func (e *SyncError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// DebugInfo returns the structured diagnostic payload of the error.
func (e *SyncError) DebugInfo() map[string]any {
	info := map[string]any{
		"code":    string(e.Code),
		"message": e.Message,
	}
	if e.Op != "" {
		info["errorLocation"] = e.Op
		info["statement"] = e.Statement
		info["index"] = e.Index
	}
	return info
}

// IsCode reports whether err is a SyncError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *SyncError
	return errors.As(err, &se) && se.Code == code
}
