// Package idgen issues the ids that name dialog sessions and the windows
// that display them.
package idgen

import (
	"fmt"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	sessionPrefix = "dlg-"
	windowPrefix  = "win-"

	// Window ids travel in URL paths and query strings.
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	size     = 12
)

// SessionID returns a new dialog session id.
func SessionID() (string, error) {
	return issue(sessionPrefix)
}

// WindowID returns a new dialog window id.
func WindowID() (string, error) {
	return issue(windowPrefix)
}

// IsSessionID reports whether id has the shape SessionID produces.
func IsSessionID(id string) bool {
	return wellFormed(id, sessionPrefix)
}

// IsWindowID reports whether id has the shape WindowID produces.
func IsWindowID(id string) bool {
	return wellFormed(id, windowPrefix)
}

func issue(prefix string) (string, error) {
	id, err := nanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

func wellFormed(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok || len(rest) != size {
		return false
	}
	for _, r := range rest {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}
