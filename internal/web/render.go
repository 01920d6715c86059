package web

import (
	"bytes"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/session"
)

func (s *Server) funcMap() template.FuncMap {
	return template.FuncMap{
		"imageURL":     s.api.ImageURL,
		"money":        formatMoney,
		"number":       formatNumber,
		"label":        label,
		"pendingLabel": countLabel,
		"date":         func(t time.Time) string { return t.Local().Format("Jan 2, 2006 3:04 PM") },
		"year":         func() int { return time.Now().Year() },
		"deref":        func(p *int) int { return *p },
		"filterURL": func(f domain.PropertyFilter, field, value string) string {
			return "/properties?" + f.With(field, value).Values().Encode()
		},
		"pageURL": func(f domain.PropertyFilter, p int) string { return f.PageURL(p) },
	}
}

// page builds the data shared by every full page: site copy, the session user
// and the active navigation entry.
func (s *Server) page(r *http.Request, nav string, data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data["Site"] = s.site
	data["ActiveNav"] = nav
	if sess := session.FromContext(r.Context()); sess != nil {
		data["User"] = sess.User()
		data["Authenticated"] = sess.IsAuthenticated()
	}
	return data
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	return s.renderPageStatus(w, http.StatusOK, data, files...)
}

func (s *Server) renderPageStatus(w http.ResponseWriter, status int, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, append([]string{"base.html"}, files...)...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// renderPartial executes the {{define}} block named name from file.
func (s *Server) renderPartial(w http.ResponseWriter, file, name string, data any) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, file)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, name, data)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := s.page(r, "", map[string]any{"Status": status, "Message": msg})
	if err := s.renderPageStatus(w, status, data, "pages/error.html"); err != nil {
		s.log(r).Error("render error page failed", "error", err)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, "Page not found")
}

// fail is the shell's single decision point for a failed backend call. An
// expired session is logged out and sent to the login page; anything else
// renders an error page with msg.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if apiclient.Classify(err) == apiclient.OutcomeAuthExpired {
		s.expireSession(w, r)
		return
	}
	s.log(r).Error(msg, "error", err)
	s.renderError(w, r, http.StatusBadGateway, msg)
}

func (s *Server) expireSession(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil {
		if err := sess.Logout(); err != nil {
			s.log(r).Error("failed to clear expired session", "error", err)
		}
	}
	s.log(r).Info("session expired")
	s.redirect(w, r, "/login?expired=1")
}

// formatMoney renders an amount with thousands separators and no more than
// two decimals, e.g. 1500000 -> "$1,500,000".
func formatMoney(f float64) string {
	return "$" + formatNumber(f)
}

func formatNumber(f float64) string {
	neg := f < 0
	f = math.Abs(f)
	s := strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// label turns an enumeration value such as UNDER_CONSTRUCTION into
// "Under Construction".
func label(v any) string {
	var raw string
	switch t := v.(type) {
	case string:
		raw = t
	case domain.PropertyType:
		raw = string(t)
	case domain.PropertyStatus:
		raw = string(t)
	case domain.InquiryStatus:
		raw = string(t)
	default:
		return ""
	}
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(raw), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
