package web

import (
	"net/http"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/form"
	"github.com/vbonduro/urbanhomes/internal/query"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "home", map[string]any{"Types": domain.PropertyTypes})
	if err := s.renderPage(w, data, "pages/home.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w, s.page(r, "about", nil), "pages/about.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	f := form.ContactForm{PropertyID: r.URL.Query().Get("property")}
	s.renderContact(w, r, http.StatusOK, f, nil, "")
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	f := form.ParseContact(r.PostForm)
	if errs := s.validator.Validate(f); errs != nil {
		s.renderContact(w, r, http.StatusUnprocessableEntity, f, errs, "")
		return
	}

	if _, err := s.inquiries.Create(r.Context(), f.Input()); err != nil {
		if apiclient.Classify(err) == apiclient.OutcomeAuthExpired {
			s.expireSession(w, r)
			return
		}
		s.log(r).Error("create inquiry failed", "error", err)
		s.renderContact(w, r, http.StatusBadGateway, f, nil, "Failed to send message. Please try again.")
		return
	}
	s.queries.Invalidate(r.Context(), query.NSInquiries, query.NSAdminInquiries)
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

func (s *Server) renderContact(w http.ResponseWriter, r *http.Request, status int, f form.ContactForm, errs form.Errors, banner string) {
	data := s.page(r, "contact", map[string]any{
		"Form":   f,
		"Errors": errs,
		"Error":  banner,
		"Sent":   r.URL.Query().Get("sent") == "1",
	})
	if err := s.renderPageStatus(w, status, data, "pages/contact.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}
