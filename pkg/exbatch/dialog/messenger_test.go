package dialog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeWindow struct {
	mu        sync.Mutex
	onMessage func(string) error
	onClosed  func()
	closes    int
}

func (w *fakeWindow) OnMessage(fn func(string) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMessage = fn
}

func (w *fakeWindow) OnClosed(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClosed = fn
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closes++
	return nil
}

func (w *fakeWindow) post(message string) error {
	w.mu.Lock()
	fn := w.onMessage
	w.mu.Unlock()
	return fn(message)
}

func (w *fakeWindow) userClose() {
	w.mu.Lock()
	fn := w.onClosed
	w.mu.Unlock()
	fn()
}

func (w *fakeWindow) closeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closes
}

type fakeHost struct {
	err     error
	urls    []string
	sizes   []DisplayOptions
	windows []*fakeWindow
}

func (h *fakeHost) Display(_ context.Context, url string, opts DisplayOptions) (Window, error) {
	h.urls = append(h.urls, url)
	h.sizes = append(h.sizes, opts)
	if h.err != nil {
		return nil, h.err
	}
	w := &fakeWindow{}
	h.windows = append(h.windows, w)
	return w, nil
}

func newTestMessenger(host DialogHost, opts Options) (*Messenger, *Elements, *bytes.Buffer) {
	var buf bytes.Buffer
	sink := NewElements()
	return NewMessenger(host, sink, opts, zerolog.New(&buf)), sink, &buf
}

func TestMessageRoundTrip(t *testing.T) {
	host := &fakeHost{}
	m, sink, _ := newTestMessenger(host, DefaultOptions())

	s, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !strings.HasPrefix(s.ID, "dlg-") {
		t.Errorf("Expected session id with dlg- prefix, got %q", s.ID)
	}
	if host.urls[0] != DefaultOptions().URL {
		t.Errorf("Expected url %q, got %q", DefaultOptions().URL, host.urls[0])
	}
	if host.sizes[0] != (DisplayOptions{Height: 35, Width: 25}) {
		t.Errorf("Expected 35x25 display, got %+v", host.sizes[0])
	}

	host.windows[0].post("Alice")

	if text, _ := sink.Text("user-name"); text != "Alice" {
		t.Errorf("Expected user-name to be Alice, got %q", text)
	}
	msg, err := s.Wait(context.Background())
	if err != nil || msg != "Alice" {
		t.Errorf("Expected Wait to return Alice, got %q, %v", msg, err)
	}
	if got := host.windows[0].closeCount(); got != 1 {
		t.Errorf("Expected window closed once, got %d", got)
	}
	if m.Len() != 0 || m.Active() != nil {
		t.Errorf("Expected registry to be empty after the message")
	}
}

func TestSecondMessageIsDropped(t *testing.T) {
	host := &fakeHost{}
	m, sink, _ := newTestMessenger(host, DefaultOptions())
	s, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := m.ProcessMessage(s.ID, "Alice"); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if err := m.ProcessMessage(s.ID, "Bob"); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("Expected ErrUnknownSession, got %v", err)
	}
	if err := m.ProcessMessage("not-a-session", "Bob"); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("Expected ErrUnknownSession for a malformed id, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Expected Close on an ended session to succeed, got %v", err)
	}

	if text, _ := sink.Text("user-name"); text != "Alice" {
		t.Errorf("Expected user-name to stay Alice, got %q", text)
	}
	if got := host.windows[0].closeCount(); got != 1 {
		t.Errorf("Expected window closed once, got %d", got)
	}
}

// blockingSink holds SetText until release is closed.
type blockingSink struct {
	*Elements
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSink) SetText(elementID, text string) error {
	close(s.entered)
	<-s.release
	return s.Elements.SetText(elementID, text)
}

type failingSink struct{}

func (failingSink) SetText(string, string) error {
	return errors.New("element is gone")
}

func TestCloseWaitsForRelayInProgress(t *testing.T) {
	host := &fakeHost{}
	sink := &blockingSink{Elements: NewElements(), entered: make(chan struct{}), release: make(chan struct{})}
	m := NewMessenger(host, sink, DefaultOptions(), zerolog.Nop())
	s, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	relayed := make(chan error, 1)
	go func() { relayed <- host.windows[0].post("Alice") }()
	<-sink.entered

	closed := make(chan error, 1)
	go func() { closed <- s.Close() }()
	select {
	case err := <-closed:
		t.Fatalf("Expected Close to wait for the relay, returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(sink.release)

	if err := <-closed; err != nil {
		t.Errorf("Expected Close to succeed, got %v", err)
	}
	if err := <-relayed; err != nil {
		t.Errorf("Expected message to be relayed, got %v", err)
	}
	msg, err := s.Wait(context.Background())
	if err != nil || msg != "Alice" {
		t.Errorf("Expected Wait to return Alice, got %q, %v", msg, err)
	}
	if got := host.windows[0].closeCount(); got != 1 {
		t.Errorf("Expected window closed once, got %d", got)
	}
}

func TestFailedRelayIsReported(t *testing.T) {
	host := &fakeHost{}
	m := NewMessenger(host, failingSink{}, DefaultOptions(), zerolog.Nop())
	s, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := host.windows[0].post("Alice"); err == nil {
		t.Fatal("Expected the sink error to reach the window")
	}
	if _, err := s.Wait(context.Background()); !errors.Is(err, ErrDismissed) {
		t.Errorf("Expected ErrDismissed after a failed relay, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Expected the session to be closed")
	}
}

func TestOverlapPolicies(t *testing.T) {
	t.Run("reject", func(t *testing.T) {
		host := &fakeHost{}
		m, _, _ := newTestMessenger(host, DefaultOptions())
		first, err := m.Open(context.Background())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if _, err := m.Open(context.Background()); !errors.Is(err, ErrSessionActive) {
			t.Fatalf("Expected ErrSessionActive, got %v", err)
		}
		if len(host.windows) != 1 {
			t.Errorf("Expected one displayed window, got %d", len(host.windows))
		}
		if m.Active() != first {
			t.Errorf("Expected first session to stay active")
		}
	})

	t.Run("replace", func(t *testing.T) {
		host := &fakeHost{}
		opts := DefaultOptions()
		opts.Overlap = OverlapReplace
		m, sink, _ := newTestMessenger(host, opts)
		first, err := m.Open(context.Background())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		second, err := m.Open(context.Background())
		if err != nil {
			t.Fatalf("second Open failed: %v", err)
		}

		if _, err := first.Wait(context.Background()); !errors.Is(err, ErrDismissed) {
			t.Errorf("Expected replaced session to end without message, got %v", err)
		}
		if got := host.windows[0].closeCount(); got != 1 {
			t.Errorf("Expected replaced window closed once, got %d", got)
		}
		if m.Active() != second || m.Len() != 1 {
			t.Errorf("Expected only the second session to be open")
		}

		// A late message from the replaced page goes nowhere.
		if err := host.windows[0].post("Mallory"); !errors.Is(err, ErrUnknownSession) {
			t.Errorf("Expected ErrUnknownSession for the replaced page, got %v", err)
		}
		if err := host.windows[1].post("Alice"); err != nil {
			t.Errorf("Expected message to be relayed, got %v", err)
		}
		if text, _ := sink.Text("user-name"); text != "Alice" {
			t.Errorf("Expected user-name to be Alice, got %q", text)
		}
	})
}

func TestUserClosedWindow(t *testing.T) {
	host := &fakeHost{}
	m, sink, _ := newTestMessenger(host, DefaultOptions())
	s, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	host.windows[0].userClose()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("Expected session to end after the user closed the window")
	}
	if _, ok := s.Message(); ok {
		t.Errorf("Expected no message")
	}
	if _, ok := sink.Text("user-name"); ok {
		t.Errorf("Expected user-name to be untouched")
	}
	if got := host.windows[0].closeCount(); got != 0 {
		t.Errorf("Expected no Close call for a user-closed window, got %d", got)
	}
	if _, err := m.Open(context.Background()); err != nil {
		t.Errorf("Expected a new dialog to open after the first closed, got %v", err)
	}
}

func TestDisplayFailureIsReturnedAndLogged(t *testing.T) {
	host := &fakeHost{err: errors.New("popup blocked")}
	m, _, logs := newTestMessenger(host, DefaultOptions())

	_, err := m.Open(context.Background())
	var de *DisplayError
	if !errors.As(err, &de) {
		t.Fatalf("Expected DisplayError, got %v", err)
	}
	if de.URL != DefaultOptions().URL {
		t.Errorf("Expected url %q, got %q", DefaultOptions().URL, de.URL)
	}
	if m.Len() != 0 {
		t.Errorf("Expected no session after a display failure")
	}
	if got := strings.Count(logs.String(), "dialog display failed"); got != 1 {
		t.Errorf("Expected 1 log entry, got %d: %s", got, logs.String())
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		ok     bool
	}{
		{"defaults", func(*Options) {}, true},
		{"no url", func(o *Options) { o.URL = " " }, false},
		{"no element", func(o *Options) { o.Element = "" }, false},
		{"too tall", func(o *Options) { o.Display.Height = 101 }, false},
		{"zero width", func(o *Options) { o.Display.Width = 0 }, false},
		{"replace", func(o *Options) { o.Overlap = OverlapReplace }, true},
		{"unknown policy", func(o *Options) { o.Overlap = "queue" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if err := opts.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tt.ok)
			}
		})
	}
}

func TestConcurrentMessagesRelayOnce(t *testing.T) {
	host := &fakeHost{}
	m, _, _ := newTestMessenger(host, DefaultOptions())
	s, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	relayed := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.ProcessMessage(s.ID, "Alice") == nil {
				mu.Lock()
				relayed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if relayed != 1 {
		t.Errorf("Expected exactly one relayed message, got %d", relayed)
	}
	if got := host.windows[0].closeCount(); got != 1 {
		t.Errorf("Expected window closed once, got %d", got)
	}
}
