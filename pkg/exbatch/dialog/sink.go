package dialog

import "sync"

// Elements is an in-memory TextSink keyed by element id.
type Elements struct {
	mu   sync.RWMutex
	text map[string]string
}

func NewElements() *Elements {
	return &Elements{text: make(map[string]string)}
}

func (e *Elements) SetText(elementID, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text[elementID] = text
	return nil
}

// Text returns the current text of elementID.
func (e *Elements) Text(elementID string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	text, ok := e.text[elementID]
	return text, ok
}
