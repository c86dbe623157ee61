// File: internal/fakeapp/portal.go
package fakeapp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/magidevv/authflows/internal/messages"
)

type footerLink struct {
	Name string
	Path string
}

var footerLinks = []footerLink{
	{Name: "About", Path: "/about"},
	{Name: "Privacy", Path: "/privacy"},
	{Name: "Terms", Path: "/terms"},
	{Name: "Contact", Path: "/contact"},
}

func (s *Server) registerPortalRoutes(r chi.Router) {
	r.Get("/", s.handlePortalHome)
	r.Get("/signin", s.handleSignInForm)
	r.Post("/signin", s.handleSignIn)
	r.Post("/signout", s.handleSignOut)
	r.Get("/profile", s.handleProfile)
	for _, link := range footerLinks {
		r.Get(link.Path, s.handleInfo(link.Name))
	}
}

func (s *Server) portalView(title string) view {
	return view{Title: title, FooterLinks: footerLinks, Year: time.Now().Year()}
}

func (s *Server) handlePortalHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", s.portalView("Home"))
}

func (s *Server) handleSignInForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(r); ok {
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "signin", s.portalView("Sign in"))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	login := r.PostForm.Get("username")
	account, token, err := s.store.Authenticate(login, r.PostForm.Get("password"))
	if err != nil {
		s.logger.Info("Failed sign-in attempt.", zap.String("login", login))
		v := s.portalView("Sign in")
		v.Alert = messages.Get(messages.InvalidCredentials)
		v.Form.Login = login
		s.render(w, r, http.StatusUnauthorized, "signin", v)
		return
	}
	s.logger.Info("User signed in.", zap.String("login", account.Login))
	s.startSession(w, token)
	http.Redirect(w, r, "/profile", http.StatusFound)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := s.currentUser(r)
	if !ok {
		http.Redirect(w, r, "/signin", http.StatusFound)
		return
	}
	v := s.portalView("Profile")
	v.User = &account
	s.render(w, r, http.StatusOK, "profile", v)
}

func (s *Server) handleInfo(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "info", s.portalView(title))
	}
}
