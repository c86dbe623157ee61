// File: internal/fakeapp/tracker.go
package fakeapp

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/magidevv/authflows/internal/messages"
)

func (s *Server) registerTrackerRoutes(r chi.Router) {
	r.Get("/", s.handleTrackerHome)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)
	r.Post("/logout", s.handleLogout)
	r.Get("/account/register", s.handleRegisterForm)
	r.Post("/account/register", s.handleRegister)
	r.Get("/account/activate", s.handleActivate)
	r.Get("/my/account", s.handleMyAccount)
	r.Get("/users/{id}", s.handleUser)
}

func (s *Server) handleTrackerHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", view{Title: "Home"})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", view{Title: "Login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	login := r.PostForm.Get("username")
	account, token, err := s.store.Authenticate(login, r.PostForm.Get("password"))
	if err != nil {
		s.logger.Info("Failed login attempt.", zap.String("login", login))
		s.render(w, r, http.StatusOK, "login", view{
			Title: "Login",
			Alert: messages.Get(messages.InvalidCredentials),
			Form:  Registration{Login: login},
		})
		return
	}
	s.logger.Info("User logged in.", zap.String("login", account.Login))
	s.startSession(w, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", view{
		Title:     "Register",
		Form:      Registration{Language: "en"},
		Languages: languages,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	f := r.PostForm
	reg := Registration{
		Login:                f.Get("user[login]"),
		Password:             f.Get("user[password]"),
		PasswordConfirmation: f.Get("user[password_confirmation]"),
		FirstName:            f.Get("user[firstname]"),
		LastName:             f.Get("user[lastname]"),
		Email:                f.Get("user[mail]"),
		HideEmail:            f.Get("pref[hide_mail]") == "1",
		Language:             f.Get("user[language]"),
		Organization:         f.Get("user[custom_field_values][5]"),
		Location:             f.Get("user[custom_field_values][6]"),
		IRC:                  f.Get("user[custom_field_values][3]"),
	}
	if reg.Language == "" {
		reg.Language = "en"
	}

	if errs := reg.Validate(s.store.LoginTaken); len(errs) > 0 {
		s.logger.Debug("Registration rejected.", zap.Int("errors", len(errs)))
		// Passwords are never echoed back.
		reg.Password, reg.PasswordConfirmation = "", ""
		s.render(w, r, http.StatusOK, "register", view{
			Title:     "Register",
			Form:      reg,
			Errors:    errs,
			Invalid:   errorFields(errs),
			Languages: languages,
		})
		return
	}

	account, _ := s.store.Register(Account{
		Login:        reg.Login,
		Password:     reg.Password,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Email:        reg.Email,
		HideEmail:    reg.HideEmail,
		Language:     reg.Language,
		Organization: reg.Organization,
		Location:     reg.Location,
		IRC:          reg.IRC,
	})
	s.logger.Info("Account registered.", zap.String("login", account.Login), zap.Int("id", account.ID))
	s.setFlash(w, messages.RegistrationSuccess(account.Email))
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Activate(r.URL.Query().Get("token")); err != nil {
		http.NotFound(w, r)
		return
	}
	s.setFlash(w, messages.Get(messages.SuccessfulActivation))
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleMyAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := s.currentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "my_account", view{Title: "My account", User: &account, Sidebar: true})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	profile, ok := s.store.Account(id)
	if !ok || !profile.Active {
		http.NotFound(w, r)
		return
	}
	v := view{Title: profile.Name(), Profile: profile}
	viewer, signedIn := s.currentUser(r)
	v.ShowEmail = !profile.HideEmail || (signedIn && viewer.ID == profile.ID)
	s.render(w, r, http.StatusOK, "user", v)
}
