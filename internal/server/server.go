// Package server exposes the walkthrough and the quiz over HTTP for the web
// client and for embedding in other pages.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dataexplorer/internal/catalog"
	"github.com/KaramelBytes/dataexplorer/internal/cue"
	"github.com/KaramelBytes/dataexplorer/internal/quiz"
	"github.com/KaramelBytes/dataexplorer/internal/session"
	"github.com/KaramelBytes/dataexplorer/internal/wizard"
)

// WizardFactory builds a controller that reports its cues to emit.
type WizardFactory func(emit cue.Emitter) (*wizard.Controller, error)

// Options configures a Server. Zero fields get defaults.
type Options struct {
	// Embed mounts only health, datasets, wizard and cues, and allows framing.
	Embed          bool
	AllowedOrigins []string
	PublicURL      string
	SessionTTL     time.Duration
	Recipient      string
	Catalog        *catalog.Catalog
	Questions      []quiz.Question
	NewWizard      WizardFactory
	Logger         *zap.Logger
}

// Server holds the per-client sessions and the router.
type Server struct {
	opts    Options
	log     *zap.Logger
	wizards *session.Store[*wizardSession]
	quizzes *session.Store[*quizSession]
	router  chi.Router
}

// New wires the router for opts.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Questions == nil {
		opts.Questions = catalog.Questions()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Recipient == "" {
		opts.Recipient = quiz.DefaultRecipient
	}
	if opts.NewWizard == nil {
		cat, qs, l := opts.Catalog, opts.Questions, opts.Logger
		opts.NewWizard = func(emit cue.Emitter) (*wizard.Controller, error) {
			return wizard.New(wizard.Config{Catalog: cat, Questions: qs, Cues: emit, Logger: l})
		}
	}
	s := &Server{opts: opts, log: opts.Logger}
	s.wizards = session.NewStore[*wizardSession](opts.SessionTTL,
		session.WithEvict(func(_ string, ws *wizardSession) { ws.ctl.Close() }),
		session.WithLogger[*wizardSession]("wizard", s.log))
	s.quizzes = session.NewStore[*quizSession](opts.SessionTTL,
		session.WithLogger[*quizSession]("quiz", s.log))
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sweep evicts idle sessions until ctx is done.
func (s *Server) Sweep(ctx context.Context) {
	go s.wizards.Sweep(ctx, 0)
	s.quizzes.Sweep(ctx, 0)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.Sweep(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr), zap.Bool("embed", s.opts.Embed))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if !s.opts.Embed {
		r.Use(frameOptions("SAMEORIGIN"))
	}

	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/datasets", s.listDatasets)
		r.Get("/datasets/{id}", s.getDataset)
		r.Route("/wizard", s.wizardRoutes)
		if !s.opts.Embed {
			r.Route("/quiz", s.quizRoutes)
		}
	})
	r.Get("/cues", s.listCues)
	r.Get("/cues/{name}.wav", s.cueWAV)
	if !s.opts.Embed {
		r.Get("/embed/snippet", s.embedSnippet)
	}
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listDatasets(w http.ResponseWriter, _ *http.Request) {
	all := s.opts.Catalog.All()
	out := make([]datasetSummary, len(all))
	for i, d := range all {
		out[i] = summarize(d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getDataset(w http.ResponseWriter, r *http.Request) {
	d, err := s.opts.Catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type datasetSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Rows        int    `json:"rows"`
	Dirty       int    `json:"dirty"`
}

func summarize(d catalog.Dataset) datasetSummary {
	kind := "data"
	switch d.Kind() {
	case catalog.KindContent:
		kind = "content"
	case catalog.KindEmpty:
		kind = "empty"
	}
	return datasetSummary{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Kind:        kind,
		Rows:        len(d.Data),
		Dirty:       d.DirtyCount(),
	}
}

// EmbedSnippet is the iframe markup for embedding the walkthrough at publicURL.
func EmbedSnippet(publicURL string) string {
	src := strings.TrimRight(publicURL, "/") + "/embed"
	return fmt.Sprintf("<iframe \n  src=%q \n  width=\"100%%\" \n  height=\"800\" \n  style=\"border:1px solid #ccc; border-radius: 12px;\" \n  title=\"Data Explorer Interaktif\"\n  allowfullscreen>\n</iframe>", src)
}

func (s *Server) embedSnippet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(EmbedSnippet(s.opts.PublicURL)))
}
