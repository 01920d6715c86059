package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/config"
	"github.com/vbonduro/urbanhomes/internal/form"
	"github.com/vbonduro/urbanhomes/internal/query"
	"github.com/vbonduro/urbanhomes/internal/service"
	"github.com/vbonduro/urbanhomes/internal/vision"
)

// Deps are the collaborators a Server renders pages from. Describer is
// optional; the "Suggest description" action is hidden without it.
type Deps struct {
	API        *apiclient.Client
	Properties *service.PropertyService
	Inquiries  *service.InquiryService
	Auth       *service.AuthService
	Uploader   *service.ImageUploader
	Describer  vision.Describer
	Queries    *query.Client
	Cookies    sessions.Store
	Site       *config.Site
	Templates  fs.FS
	Logger     *slog.Logger
}

type Server struct {
	api        *apiclient.Client
	properties *service.PropertyService
	inquiries  *service.InquiryService
	auth       *service.AuthService
	uploader   *service.ImageUploader
	describer  vision.Describer
	queries    *query.Client
	cookies    sessions.Store
	site       *config.Site
	templates  fs.FS
	validator  *form.Validator
	router     *mux.Router
	tmplFuncs  template.FuncMap
	logger     *slog.Logger
}

func NewServer(d Deps) *Server {
	s := &Server{
		api:        d.API,
		properties: d.Properties,
		inquiries:  d.Inquiries,
		auth:       d.Auth,
		uploader:   d.Uploader,
		describer:  d.Describer,
		queries:    d.Queries,
		cookies:    d.Cookies,
		site:       d.Site,
		templates:  d.Templates,
		validator:  form.NewValidator(),
		router:     mux.NewRouter(),
		logger:     d.Logger,
	}
	s.tmplFuncs = s.funcMap()
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(s.withSession)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// NotFoundHandler bypasses router middleware.
		s.withSession(http.HandlerFunc(s.handleNotFound)).ServeHTTP(w, r)
	})

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/about", s.handleAbout).Methods(http.MethodGet)
	r.HandleFunc("/properties", s.handleListProperties).Methods(http.MethodGet)
	r.HandleFunc("/properties/{id}", s.handlePropertyDetail).Methods(http.MethodGet)
	r.HandleFunc("/contact", s.handleContactForm).Methods(http.MethodGet)
	r.HandleFunc("/contact", s.handleContactSubmit).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet, http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAuth)
	admin.HandleFunc("", s.handleDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)

	admin.HandleFunc("/properties", s.handleAdminProperties).Methods(http.MethodGet)
	admin.HandleFunc("/properties", s.handleCreateProperty).Methods(http.MethodPost)
	admin.HandleFunc("/properties/describe", s.handleDescribePhoto).Methods(http.MethodPost)
	admin.HandleFunc("/properties/{id}", s.handleUpdateProperty).Methods(http.MethodPost)
	admin.HandleFunc("/properties/{id}/delete", s.handleConfirmDeleteProperty).Methods(http.MethodGet)
	admin.HandleFunc("/properties/{id}/delete", s.handleDeleteProperty).Methods(http.MethodPost)
	admin.HandleFunc("/properties/{id}/images/retry", s.handleRetryImages).Methods(http.MethodPost)

	admin.HandleFunc("/inquiries", s.handleAdminInquiries).Methods(http.MethodGet)
	admin.HandleFunc("/inquiries/{id}/status", s.handleInquiryStatus).Methods(http.MethodPost)
	admin.HandleFunc("/inquiries/{id}/delete", s.handleConfirmDeleteInquiry).Methods(http.MethodGet)
	admin.HandleFunc("/inquiries/{id}/delete", s.handleDeleteInquiry).Methods(http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.router)).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
