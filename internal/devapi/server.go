// Package devapi is an in-memory implementation of the listings REST API. It
// backs local development and the end-to-end tests of the web front and CLI.
package devapi

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vbonduro/urbanhomes/internal/domain"
)

const (
	defaultPropertyLimit = 12
	defaultInquiryLimit  = 10
	maxUploadBytes       = "20M"
)

type account struct {
	user         domain.User
	passwordHash []byte
}

type storedImage struct {
	mimeType string
	data     []byte
}

type Server struct {
	mu          sync.RWMutex
	accounts    map[string]*account // by lower-cased email
	properties  []*domain.Property  // newest first
	inquiries   []*domain.ContactInquiry
	images      map[string]storedImage
	secret      []byte
	failUploads bool
	calls       map[string]int

	now    func() time.Time
	logger *slog.Logger
	echo   *echo.Echo
}

// New returns a server seeded with the admin account and sample listings.
func New(logger *slog.Logger) *Server {
	s := &Server{
		accounts: make(map[string]*account),
		images:   make(map[string]storedImage),
		calls:    make(map[string]int),
		secret:   newSecret(),
		now:      time.Now,
		logger:   logger,
	}
	s.seed()
	s.echo = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxUploadBytes))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("api request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds())
			return nil
		},
	}))
	e.Use(s.countCalls)

	e.GET("/uploads/:name", s.serveImage)

	api := e.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)
	api.GET("/auth/profile", s.profile, s.requireToken)

	api.GET("/properties", s.listProperties, s.checkToken)
	api.GET("/properties/:id", s.getProperty, s.checkToken)
	api.POST("/properties", s.createProperty, s.requireToken)
	api.PUT("/properties/:id", s.updateProperty, s.requireToken)
	api.DELETE("/properties/:id", s.deleteProperty, s.requireToken)
	api.POST("/properties/:id/images", s.uploadImages, s.requireToken)

	api.POST("/inquiries", s.createInquiry, s.checkToken)
	api.GET("/inquiries", s.listInquiries, s.requireToken)
	api.PATCH("/inquiries/:id/status", s.updateInquiryStatus, s.requireToken)
	api.DELETE("/inquiries/:id", s.deleteInquiry, s.requireToken)
	return e
}

// errorHandler renders every error as {"error": message}.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else {
		s.logger.Error("api handler failed", "path", c.Path(), "error", err)
	}
	if jerr := c.JSON(code, map[string]string{"error": msg}); jerr != nil {
		s.logger.Error("failed to write error response", "error", jerr)
	}
}

func (s *Server) countCalls(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path
		s.mu.Lock()
		s.calls[key]++
		s.mu.Unlock()
		return next(c)
	}
}

// Calls reports how many requests were received for method and path, e.g.
// Calls("GET", "/api/properties").
func (s *Server) Calls(method, path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[strings.ToUpper(method)+" "+path]
}

func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// RotateSecret invalidates every token issued so far.
func (s *Server) RotateSecret() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = newSecret()
}

// FailImageUploads makes image uploads fail with 503 until switched off.
func (s *Server) FailImageUploads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUploads = fail
}

func newSecret() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}
