package dialog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/ukaji3/exbatch-go/internal/idgen"
	"github.com/ukaji3/exbatch-go/internal/observability"
)

var (
	errWindowClosed = errors.New("dialog window closed")
	errNoHandler    = errors.New("dialog window has no message handler")
)

// HTTPHost is a DialogHost that serves the dialog page itself. The page at
// the configured path posts its message to /dialog/:window/message and a
// cancel to /dialog/:window/close. The listener is opened by the first
// Display.
type HTTPHost struct {
	addr   string
	page   string
	logger zerolog.Logger
	router *gin.Engine

	mu      sync.Mutex
	server  *http.Server
	base    string
	windows map[string]*httpWindow
}

// NewHTTPHost returns a host listening on addr (":0" picks a free port) and
// serving the dialog page at path page.
func NewHTTPHost(addr, page string, logger zerolog.Logger) *HTTPHost {
	observability.RegisterMetrics()
	if !strings.HasPrefix(page, "/") {
		page = "/" + page
	}
	logger = logger.With().Str("component", "dialog_http").Logger()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.SetHTMLTemplate(popupTemplate)

	h := &HTTPHost{
		addr:    addr,
		page:    page,
		logger:  logger,
		router:  r,
		windows: make(map[string]*httpWindow),
	}
	h.registerRoutes()
	return h
}

func (h *HTTPHost) registerRoutes() {
	h.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "windows": h.openWindows()})
	})
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.GET(h.page, h.servePage)

	win := h.router.Group("/dialog/:window")
	win.POST("/message", h.postMessage)
	win.POST("/close", h.postClose)
}

// Handler returns the router, for serving under another server.
func (h *HTTPHost) Handler() http.Handler {
	return h.router
}

// Base returns the URL the listener is reachable at, or "" before the
// first Display.
func (h *HTTPHost) Base() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.base
}

func (h *HTTPHost) Display(ctx context.Context, rawURL string, opts DisplayOptions) (Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Path != h.page {
		return nil, fmt.Errorf("no dialog page served at %q", u.Path)
	}
	if err := h.start(); err != nil {
		return nil, err
	}
	id, err := idgen.WindowID()
	if err != nil {
		return nil, err
	}

	w := &httpWindow{id: id, host: h, opts: opts}
	h.mu.Lock()
	w.location = h.base + h.page + "?window=" + url.QueryEscape(id)
	h.windows[id] = w
	h.mu.Unlock()
	return w, nil
}

// Shutdown stops the listener. Open windows stay registered.
func (h *HTTPHost) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	srv := h.server
	h.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (h *HTTPHost) start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.server != nil {
		return nil
	}
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return err
	}
	h.base = "http://" + reachable(ln.Addr())
	h.server = &http.Server{Handler: h.router, ReadHeaderTimeout: 5 * time.Second}
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error().Err(err).Msg("dialog server stopped")
		}
	}(h.server)
	h.logger.Info().Str("base", h.base).Msg("dialog server listening")
	return nil
}

// reachable replaces an unspecified listen address with localhost.
func reachable(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

func (h *HTTPHost) window(id string) *httpWindow {
	if !idgen.IsWindowID(id) {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.windows[id]
}

func (h *HTTPHost) forget(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.windows, id)
}

func (h *HTTPHost) openWindows() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.windows)
}

func (h *HTTPHost) servePage(c *gin.Context) {
	id := c.Query("window")
	w := h.window(id)
	if w == nil {
		c.String(http.StatusNotFound, "dialog closed or unknown")
		return
	}
	c.HTML(http.StatusOK, popupTemplateName, gin.H{
		"Height":      w.opts.Height,
		"Width":       w.opts.Width,
		"MessagePath": "/dialog/" + id + "/message",
		"ClosePath":   "/dialog/" + id + "/close",
	})
}

type messageBody struct {
	Message string `json:"message"`
}

func (h *HTTPHost) postMessage(c *gin.Context) {
	var body messageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := h.window(c.Param("window"))
	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dialog closed or unknown"})
		return
	}
	if err := w.deliver(body.Message); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHost) postClose(c *gin.Context) {
	w := h.window(c.Param("window"))
	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dialog closed or unknown"})
		return
	}
	if err := w.dismiss(); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errWindowClosed), errors.Is(err, ErrSessionClosed), errors.Is(err, ErrUnknownSession):
		return http.StatusGone
	case errors.Is(err, errNoHandler):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type httpWindow struct {
	id       string
	location string
	host     *HTTPHost
	opts     DisplayOptions

	mu        sync.Mutex
	onMessage func(string) error
	onClosed  func()
	closed    bool
}

func (w *httpWindow) OnMessage(fn func(string) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMessage = fn
}

func (w *httpWindow) OnClosed(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClosed = fn
}

func (w *httpWindow) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	w.host.forget(w.id)
	return nil
}

func (w *httpWindow) Location() string {
	return w.location
}

// deliver hands message to the handler outside the lock; the handler
// usually closes the window.
func (w *httpWindow) deliver(message string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errWindowClosed
	}
	fn := w.onMessage
	w.mu.Unlock()
	if fn == nil {
		return errNoHandler
	}
	return fn(message)
}

func (w *httpWindow) dismiss() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errWindowClosed
	}
	w.closed = true
	fn := w.onClosed
	w.mu.Unlock()
	w.host.forget(w.id)
	if fn != nil {
		fn()
	}
	return nil
}
