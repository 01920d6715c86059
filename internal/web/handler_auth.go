package web

import (
	"net/http"

	"github.com/vbonduro/urbanhomes/internal/form"
	"github.com/vbonduro/urbanhomes/internal/session"
)

const invalidCredentials = "Invalid credentials. Please try again."

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil && sess.IsAuthenticated() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	banner := ""
	if r.URL.Query().Get("expired") == "1" {
		banner = "Your session has expired. Please log in again."
	}
	s.renderLogin(w, r, http.StatusOK, form.LoginForm{}, nil, banner)
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	f := form.ParseLogin(r.PostForm)
	if errs := s.validator.Validate(f); errs != nil {
		s.renderLogin(w, r, http.StatusUnprocessableEntity, form.LoginForm{Email: f.Email}, errs, "")
		return
	}

	resp, err := s.auth.Login(r.Context(), f.Email, f.Password)
	if err != nil {
		s.log(r).Info("login rejected", "email", f.Email, "error", err)
		s.renderLogin(w, r, http.StatusUnauthorized, form.LoginForm{Email: f.Email}, nil, invalidCredentials)
		return
	}

	sess := session.FromContext(r.Context())
	if err := sess.Login(resp.User, resp.Token); err != nil {
		s.log(r).Error("failed to persist session", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	s.log(r).Info("admin signed in", "user_id", resp.User.ID)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil {
		if err := sess.Logout(); err != nil {
			s.log(r).Error("failed to clear session", "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, f form.LoginForm, errs form.Errors, banner string) {
	data := s.page(r, "login", map[string]any{"Form": f, "Errors": errs, "Error": banner})
	if err := s.renderPageStatus(w, status, data, "pages/login.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}
