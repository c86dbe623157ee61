// File: internal/fakeapp/server.go
package fakeapp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/magidevv/authflows/internal/config"
)

const (
	sessionCookie = "_authflows_session"
	flashCookie   = "_authflows_flash"

	shutdownTimeout = 10 * time.Second
)

// Server is an in-process stand-in for the application under test. It renders
// the markup the page objects expect and applies the same validation rules.
type Server struct {
	cfg    config.FakeAppConfig
	logger *zap.Logger
	store  *Store
	router chi.Router
	pages  map[string]*template.Template
}

// New builds a server for cfg.Variant and seeds the configured test user.
func New(cfg config.FakeAppConfig, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger.Named("fakeapp").With(zap.String("variant", cfg.Variant)),
		store:  NewStore(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	switch cfg.Variant {
	case config.AppTracker, "":
		s.pages = trackerPages
		s.registerTrackerRoutes(r)
	case config.AppPortal:
		s.pages = portalPages
		s.registerPortalRoutes(r)
	default:
		return nil, fmt.Errorf("unknown fake application variant %q", cfg.Variant)
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	s.router = r

	if cfg.Username != "" {
		s.store.Seed(cfg.Username, cfg.Password)
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Store exposes the account registry, mainly for tests.
func (s *Server) Store() *Store { return s.store }

// Serve accepts connections on l until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Fake application listening.", zap.String("address", l.Addr().String()))
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down fake application.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("fake application shutdown: %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on cfg.Addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, l)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served.",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// view is the data every page template receives.
type view struct {
	Title       string
	User        *Account
	Notice      string
	Alert       string
	Sidebar     bool
	Form        Registration
	Errors      []FieldError
	Invalid     map[string]bool
	Languages   []language
	Profile     Account
	ShowEmail   bool
	FooterLinks []footerLink
	Year        int
}

type language struct {
	Code string
	Name string
}

var languages = []language{
	{Code: "de", Name: "Deutsch (German)"},
	{Code: "en", Name: "English"},
	{Code: "fr", Name: "Français (French)"},
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	if v.Invalid == nil {
		v.Invalid = map[string]bool{}
	}
	if v.User == nil {
		if a, ok := s.currentUser(r); ok {
			v.User = &a
		}
	}
	if v.Notice == "" {
		v.Notice = s.popFlash(w, r)
	}

	// Render into a buffer so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		s.logger.Error("Failed to render page.", zap.String("page", page), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) currentUser(r *http.Request) (Account, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return Account{}, false
	}
	a, err := s.store.SessionAccount(c.Value)
	if err != nil {
		return Account{}, false
	}
	return a, true
}

func (s *Server) startSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.store.EndSession(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
}

// setFlash stores a one-shot notice shown by the next rendered page.
func (s *Server) setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: url.QueryEscape(msg), Path: "/", HttpOnly: true})
}

func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
