// Package server exposes a board over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

// Server serializes HTTP requests onto a single Manager.
type Server struct {
	m      *manager.Manager
	logger *slog.Logger
	loc    *time.Location
	router chi.Router
	mu     sync.Mutex // Guards m
}

// New creates a Server for m. A nil logger discards request logs.
func New(m *manager.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{m: m, logger: logger, loc: time.Local}
	s.router = s.routes()
	return s
}

// WithLocation sets the time zone of wire times and returns the Server.
func (s *Server) WithLocation(loc *time.Location) *Server {
	s.loc = loc
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "unknown path")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", list(s, (*manager.Manager).Tasks))
		r.Post("/", save(s, decodeTask, (*manager.Manager).CreateTask, (*manager.Manager).UpdateTask))
		r.Delete("/", deleteAll(s, (*manager.Manager).DeleteAllTasks, "all tasks deleted"))
		r.Get("/{id}", get(s, (*manager.Manager).GetTask))
		r.Delete("/{id}", deleteOne(s, (*manager.Manager).DeleteTask, "task deleted"))
	})
	r.Route("/epics", func(r chi.Router) {
		r.Get("/", list(s, (*manager.Manager).Epics))
		r.Post("/", save(s, decodeEpic, (*manager.Manager).CreateEpic, (*manager.Manager).UpdateEpic))
		r.Delete("/", deleteAll(s, (*manager.Manager).DeleteAllEpics, "all epics deleted"))
		r.Get("/{id}", get(s, (*manager.Manager).GetEpic))
		r.Delete("/{id}", deleteOne(s, (*manager.Manager).DeleteEpic, "epic deleted"))
		r.Get("/{id}/subtasks", s.handleEpicSubtasks)
	})
	r.Route("/subtasks", func(r chi.Router) {
		r.Get("/", list(s, (*manager.Manager).Subtasks))
		r.Post("/", save(s, decodeSubtask, (*manager.Manager).CreateSubtask, (*manager.Manager).UpdateSubtask))
		r.Delete("/", deleteAll(s, (*manager.Manager).DeleteAllSubtasks, "all subtasks deleted"))
		r.Get("/{id}", get(s, (*manager.Manager).GetSubtask))
		r.Delete("/{id}", deleteOne(s, (*manager.Manager).DeleteSubtask, "subtask deleted"))
	})
	r.Get("/history", s.handleHistory)
	r.Get("/prioritized", s.handlePrioritized)
	return r
}

// Serve serves HTTP on ln until ctx is canceled, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.logger.Info("listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln, shutdownTimeout)
}

func decodeTask(d itemDTO, loc *time.Location) (domain.Task, error) {
	f, err := d.fields(domain.KindTask, loc)
	return domain.Task{Fields: f}, err
}

// decodeEpic keeps only the caller-settable fields; the manager ignores the rest.
func decodeEpic(d itemDTO, loc *time.Location) (domain.Epic, error) {
	f, err := d.fields(domain.KindEpic, loc)
	return domain.Epic{Fields: f}, err
}

func decodeSubtask(d itemDTO, loc *time.Location) (domain.Subtask, error) {
	f, err := d.fields(domain.KindSubtask, loc)
	return domain.Subtask{Fields: f, EpicID: d.Epic}, err
}
