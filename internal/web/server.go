package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aurceive/drop_viewer/internal/domain"
	"github.com/aurceive/drop_viewer/internal/viewer"

	"go.uber.org/zap"
)

// ControllerFactory builds a fresh controller for one page lifetime.
type ControllerFactory func(v viewer.View) *viewer.Controller

type Options struct {
	NewController ControllerFactory
	Logger        *zap.Logger
	// StaticDir, when set, is served under /data/.
	StaticDir string
}

// Server is a single-user HTML front end. Each request runs one controller
// action under mu, so actions never interleave.
type Server struct {
	mu     sync.Mutex
	ctrl   *viewer.Controller
	view   *pageView
	newCtl ControllerFactory

	logger    *zap.Logger
	staticDir string
	tmpl      *template.Template
}

func NewServer(opts Options) (*Server, error) {
	t, err := template.New("page").Funcs(funcMap).Parse(tmplBase + tmplIndex)
	if err != nil {
		return nil, err
	}
	s := &Server{
		newCtl:    opts.NewController,
		logger:    opts.Logger,
		staticDir: opts.StaticDir,
		tmpl:      t,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

// Start begins a page lifetime: bind a new controller, load, render.
// A load failure is kept on the page rather than returned as fatal.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = &pageView{}
	s.ctrl = s.newCtl(s.view)
	return s.ctrl.Start(ctx)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/search", s.action(func(r *http.Request) error {
		s.ctrl.Search(r.URL.Query().Get("q"))
		return nil
	}))
	mux.HandleFunc("/filter", s.action(func(r *http.Request) error {
		s.ctrl.SelectCategory(r.URL.Query().Get("type"))
		return nil
	}))
	mux.HandleFunc("/sort", s.action(func(r *http.Request) error {
		s.ctrl.ApplySort(domain.SortKey(r.URL.Query().Get("by")))
		return nil
	}))
	mux.HandleFunc("/reset", s.action(func(r *http.Request) error {
		s.ctrl.Reset()
		return nil
	}))
	mux.HandleFunc("/page", s.action(func(r *http.Request) error {
		delta, err := strconv.Atoi(r.URL.Query().Get("delta"))
		if err != nil || (delta != 1 && delta != -1) {
			return errBadDelta
		}
		s.ctrl.ChangePage(delta)
		return nil
	}))
	mux.HandleFunc("/detail", s.action(func(r *http.Request) error {
		s.ctrl.ShowDetail(r.URL.Query().Get("name"))
		return nil
	}))
	mux.HandleFunc("/detail/close", s.action(func(r *http.Request) error {
		s.ctrl.CloseDetail()
		return nil
	}))
	mux.HandleFunc("/reload", s.handleReload)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/page.json", s.handlePageJSON)
	if s.staticDir != "" {
		mux.Handle("/data/", http.StripPrefix("/data/", http.FileServer(http.Dir(s.staticDir))))
	}
	return s.logRequests(mux)
}

// ListenAndServe binds addr and then runs Serve on it.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln, starts the first page lifetime once requests can be
// answered, and serves until ctx is cancelled. Starting after the listener is
// up lets the dataset be fetched from this server's own /data/.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("drop_viewer listening", zap.String("addr", ln.Addr().String()), zap.String("static", s.staticDir))

	// A failed load stays on the page with its diagnostic.
	if err := s.Start(ctx); err != nil {
		s.logger.Warn("serving without data", zap.Error(err))
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

var errBadDelta = errors.New("delta must be 1 or -1")

func (s *Server) action(fn func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.mu.Lock()
		if s.ctrl == nil {
			s.mu.Unlock()
			http.Error(w, "viewer not started", http.StatusServiceUnavailable)
			return
		}
		err := fn(r)
		scroll := s.view.takeScroll()
		s.mu.Unlock()

		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		target := "/"
		if scroll {
			target = "/#top"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

type indexData struct {
	Loading  bool
	Failed   *viewer.Diagnostic
	Total    int
	Page     viewer.Page
	Detail   *viewer.Detail
	SortKeys []domain.SortKey
}

func (s *Server) snapshot() (indexData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return indexData{}, false
	}
	d := indexData{
		Loading:  s.view.loading,
		Failed:   s.view.failed,
		Total:    s.view.total,
		Page:     s.view.page,
		Detail:   s.view.detail,
		SortKeys: domain.SortKeys,
	}
	return d, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, ok := s.snapshot()
	if !ok {
		http.Error(w, "viewer not started", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		s.logger.Error("template error", zap.Error(err))
	}
}

// handleReload is the browser's full page reload: a new page lifetime with a fresh fetch.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Start(r.Context()); err != nil {
		s.logger.Warn("reload failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{"loaded": false}
	status := http.StatusServiceUnavailable
	if s.ctrl != nil {
		resp["loaded"] = s.ctrl.Loaded()
		resp["records"] = len(s.ctrl.State().AllData)
		if le := s.ctrl.LoadError(); le != nil {
			resp["error"] = le.Error()
		}
		if s.ctrl.Loaded() {
			status = http.StatusOK
		}
	}
	s.mu.Unlock()
	writeJSON(w, status, resp)
}

func (s *Server) handlePageJSON(w http.ResponseWriter, r *http.Request) {
	data, ok := s.snapshot()
	if !ok {
		http.Error(w, "viewer not started", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, data.Page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, "/data/") || r.URL.Path == "/healthz" {
			return
		}
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}
