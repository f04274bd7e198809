package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/firefly-engineering/adfctl/internal/app"
	"github.com/firefly-engineering/adfctl/internal/errors"
	"github.com/firefly-engineering/adfctl/internal/logging"
)

// Server serves the JSON API for one App.
type Server struct {
	app    *app.App
	router chi.Router
	server *http.Server

	// mu guards selected, the profile the config endpoints operate on.
	mu       sync.Mutex
	selected string
}

// New creates a server. The active config starts out selected. Journal
// events are recorded with source "web".
func New(a *app.App) *Server {
	webApp := *a
	if a.Audit != nil {
		webApp.Audit = a.Audit.WithSource("web")
	}

	s := &Server{
		app:      &webApp,
		selected: a.Settings.ConfigFile,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/list", s.handleList)
		r.Get("/status", s.handleStatus)
		r.Get("/configs", s.handleConfigs)
		r.Get("/config", s.handleConfig)
		r.Get("/health", s.handleHealth)

		r.Post("/config", s.handlePatchConfig)
		r.Post("/config/select", s.handleSelectConfig)
		r.Post("/config/create", s.handleCreateConfig)
		r.Post("/config/activate", s.handleActivateConfig)
		r.Post("/insert", s.handleInsert)
		r.Post("/eject", s.handleEject)
		r.Post("/create", s.handleCreate)
		r.Post("/clone", s.handleClone)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// Start listens on addr and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logging.Info("serving adfctl API", "address", ln.Addr().String(), "control", s.app.Client.Endpoint.Address())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logging.Debug("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) selectedConfig() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Server) setSelectedConfig(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = path
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

// writeError writes {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeErr writes err with the status its kind maps to.
func writeErr(w http.ResponseWriter, err error) {
	var adfErr *errors.AdfError
	msg := err.Error()
	if errors.As(err, &adfErr) {
		msg = adfErr.Message
	}
	writeError(w, errors.HTTPStatus(err), msg)
}
