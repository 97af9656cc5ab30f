package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mfujita/mapnotes/internal/backup"
	"github.com/mfujita/mapnotes/internal/domain"
	"github.com/mfujita/mapnotes/internal/repository"
	"github.com/mfujita/mapnotes/internal/service"
)

type Server struct {
	service   *service.MapService
	repo      *repository.Repository
	codec     *backup.Codec
	templates embed.FS
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	logger    *slog.Logger
	basePath  string
}

func NewServer(svc *service.MapService, repo *repository.Repository, codec *backup.Codec, tmpl embed.FS, logger *slog.Logger, basePath string) *Server {
	if basePath == "" {
		basePath = "/"
	}
	s := &Server{
		service:   svc,
		repo:      repo,
		codec:     codec,
		templates: tmpl,
		mux:       http.NewServeMux(),
		logger:    logger,
		basePath:  basePath,
	}
	s.tmplFuncs = template.FuncMap{
		"icon":        func(t domain.MarkerType) string { return t.Icon() },
		"markerTypes": domain.MarkerTypes,
		"href":        s.href,
	}
	s.registerRoutes()
	return s
}

// href prefixes a path with the configured base path for subpath deploys.
func (s *Server) href(path string) string {
	if s.basePath == "/" {
		return path
	}
	return strings.TrimSuffix(s.basePath, "/") + path
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.href("/courses"), http.StatusSeeOther)
	})
	s.mux.HandleFunc("GET /courses", s.handleListCourses)
	s.mux.HandleFunc("POST /courses", s.handleCreateCourse)
	s.mux.HandleFunc("GET /courses/{id}", s.handleCourseDetail)
	s.mux.HandleFunc("DELETE /courses/{id}", s.handleDeleteCourse)
	s.mux.HandleFunc("GET /courses/{id}/map.png", s.handleMapImage)
	s.mux.HandleFunc("POST /courses/{id}/markers", s.handlePlaceMarker)
	s.mux.HandleFunc("POST /courses/{id}/suggest", s.handleSuggestMarkers)
	s.mux.HandleFunc("POST /markers/{id}/move", s.handleMoveMarker)
	s.mux.HandleFunc("POST /markers/{id}/edit", s.handleEditMarker)
	s.mux.HandleFunc("GET /backup/export", s.handleExport)
	s.mux.HandleFunc("POST /backup/import", s.handleImport)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}
