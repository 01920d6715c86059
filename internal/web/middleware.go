package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/urbanhomes/internal/logging"
	"github.com/vbonduro/urbanhomes/internal/query"
	"github.com/vbonduro/urbanhomes/internal/session"
)

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: http: https:; "+
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
		reqLogger := logger.With("method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(rec, r.WithContext(logging.WithLogger(r.Context(), reqLogger)))
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// withSession gives every request its own Session, rehydrated from the
// signed cookie. Logging out drops the cached admin queries.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.New(session.NewCookieBackend(s.cookies, w, r))
		if err := sess.Rehydrate(); err != nil {
			s.log(r).Warn("failed to rehydrate session", "error", err)
		}
		ctx := r.Context()
		sess.OnInvalidate(func(prev session.State) {
			if prev.IsAuthenticated() {
				s.queries.Invalidate(ctx, query.NSAdminProperties, query.NSAdminInquiries)
			}
		})
		next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, sess)))
	})
}

// requireAuth lets authenticated sessions through and sends everyone else to
// the login page.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess := session.FromContext(r.Context()); sess == nil || !sess.IsAuthenticated() {
			s.redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends a 303, or an HX-Redirect header for HTMX requests.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (s *Server) log(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context(), s.logger)
}
