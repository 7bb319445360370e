package live

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/loom-dev/loom/pkg/loom"
)

const tracerName = "loom/live"

// PageFunc produces the template for one request. Stores created inside
// the function are private to the resulting socket.
type PageFunc func(r *http.Request) *loom.Template

// Server is the HTTP/WebSocket preview server.
type Server struct {
	config   *Config
	router   chi.Router
	upgrader websocket.Upgrader
	metrics  *metrics
	tracer   trace.Tracer
	logger   *slog.Logger

	mu    sync.RWMutex
	pages map[string]PageFunc

	httpServer *http.Server
}

// New creates a preview server. A nil config uses defaults.
func New(config *Config) *Server {
	config = config.withDefaults()
	s := &Server{
		config:  config,
		metrics: sharedMetrics(),
		tracer:  otel.Tracer(tracerName),
		logger:  config.Logger.With("component", "live"),
		pages:   make(map[string]PageFunc),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		EnableCompression: config.EnableCompression,
		CheckOrigin:       config.CheckOrigin,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/pages/{page}", s.handlePage)
	r.Get("/live/{page}", s.handleSocket)
	r.Get("/", s.handleIndex)
	s.router = r
	return s
}

// Handle registers a page under a name.
func (s *Server) Handle(name string, page PageFunc) {
	s.mu.Lock()
	s.pages[name] = page
	s.mu.Unlock()
}

// Handler returns the server's HTTP handler, for mounting under an outer
// router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s.router,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.config.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) page(name string) (PageFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[name]
	return p, ok
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleIndex lists the registered pages.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.pages))
	for name := range s.pages {
		names = append(names, name)
	}
	s.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString("<!doctype html><title>loom preview</title><ul>")
	for _, name := range names {
		fmt.Fprintf(&sb, `<li><a href="/pages/%s">%s</a></li>`, name, name)
	}
	sb.WriteString("</ul>")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(sb.String()))
}

// handlePage renders a one-shot snapshot of the page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	page, ok := s.page(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	c, err := s.renderPage(r, name, page)
	if err != nil {
		s.logger.Error("render failed", "page", name, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	defer c.Dispose()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><html><body>%s</body></html>", c.HTML())
}

// handleSocket upgrades the connection and streams re-renders.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	page, ok := s.page(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "page", name, "err", err)
		return
	}

	c, err := s.renderPage(r, name, page)
	if err != nil {
		s.logger.Error("render failed", "page", name, "err", err)
		conn.Close()
		return
	}

	sock := newSocket(s, name, conn, c)
	s.metrics.activeSockets.Inc()
	go sock.run()
}

// renderPage binds the page template inside a span and records metrics.
func (s *Server) renderPage(r *http.Request, name string, page PageFunc) (*loom.Compiled, error) {
	ctx, span := s.tracer.Start(r.Context(), "live.render",
		trace.WithAttributes(attribute.String("page", name)))
	defer span.End()
	r = r.WithContext(ctx)

	start := time.Now()
	c, err := loom.Render(page(r), loom.WithMode(loom.Eager))
	s.metrics.renderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.renderErrors.WithLabelValues(name).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}
	s.metrics.rendersTotal.WithLabelValues(name).Inc()
	return c, nil
}
