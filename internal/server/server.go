package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"blog_section/internal/logger"
	"blog_section/internal/metrics"
	"blog_section/internal/middleware"
	"blog_section/internal/models"
	"blog_section/internal/render"
	"blog_section/internal/section"
)

const pageTitle = "News & articles"

// ArticleStore backs the blog API endpoint.
type ArticleStore interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
	Ping(ctx context.Context) error
}

// Options configure the section views and page rendering. Zero values take
// the defaults applied by NewServer.
type Options struct {
	Section       section.Options
	RenderTimeout time.Duration
	// RefreshSeconds is sent with pages rendered while still loading.
	RefreshSeconds int
}

// Server holds the dependencies of the HTTP handlers. store may be nil, in
// which case the blog API endpoint is not served.
type Server struct {
	store    ArticleStore
	fetcher  section.Fetcher
	renderer *render.Renderer
	opts     Options
	log      *logger.Entry
}

// NewServer fills in defaults for zero options. store may be nil.
func NewServer(store ArticleStore, fetcher section.Fetcher, renderer *render.Renderer, opts Options) *Server {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 2 * time.Second
	}
	if opts.RefreshSeconds <= 0 {
		opts.RefreshSeconds = 2
	}
	return &Server{
		store:    store,
		fetcher:  fetcher,
		renderer: renderer,
		opts:     opts,
		log:      logger.Component("server"),
	}
}

// Routes builds the mux wrapped in the request ID, logging and metrics
// middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.Landing)
	mux.HandleFunc("GET /section", s.Section)
	mux.HandleFunc("POST /api/share/{id}", s.ShareArticle)
	mux.HandleFunc("GET /api/admin/dashboard/blog", s.ListArticles)
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.Handle("GET /metrics", metrics.Handler())

	handler := middleware.MetricsMiddleware(mux)
	handler = middleware.LoggingMiddleware(handler)
	return middleware.RequestIDMiddleware(handler)
}

// HoverParam names the query parameter that carries the hovered card id.
const HoverParam = "hover"

// mountSection mounts a view for the lifetime of one request and returns its
// state once it settles or the render timeout passes.
func (s *Server) mountSection(r *http.Request) (section.State, bool) {
	ctx := r.Context()
	view := section.NewView(s.fetcher, s.opts.Section)
	view.Mount(ctx)
	defer view.Unmount()

	if id := r.URL.Query().Get(HoverParam); id != "" {
		view.Hover(id)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.opts.RenderTimeout)
	defer cancel()
	settled := view.Wait(waitCtx)
	return view.Snapshot(), settled
}

// Landing renders the full page. A section that has not settled in time is
// rendered as a skeleton that asks the browser to refresh.
func (s *Server) Landing(w http.ResponseWriter, r *http.Request) {
	st, settled := s.mountSection(r)

	data := render.PageData{Title: pageTitle, State: st}
	if !settled {
		data.Refresh = s.opts.RefreshSeconds
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Page(w, data); err != nil {
		s.serverError(w, r, err)
	}
}

// Section renders the section fragment alone.
func (s *Server) Section(w http.ResponseWriter, r *http.Request) {
	st, _ := s.mountSection(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Fragment(w, st); err != nil {
		s.serverError(w, r, err)
	}
}

// ShareArticle answers the share control with 204 No Content so the browser
// stays on the page. Sharing has no target yet; the click is only logged.
func (s *Server) ShareArticle(w http.ResponseWriter, r *http.Request) {
	err := section.Share(r.PathValue("id"))
	if err != nil && !errors.Is(err, section.ErrShareNotImplemented) {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListArticles serves the blog API: every stored article, newest first.
func (s *Server) ListArticles(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Article store not configured", http.StatusServiceUnavailable)
		return
	}

	articles, err := s.store.ListArticles(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(articles); err != nil {
		s.log.WithError(err).Warn("Failed to encode articles")
	}
}

// HealthCheck answers 200 OK when the store (if any) is reachable, 503
// otherwise.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Write([]byte("OK"))
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithFields(logger.Fields{
		"path":       r.URL.Path,
		"request_id": middleware.RequestID(r.Context()),
	}).Error("Request failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
