package main

import (
	"context"
	"crypto/rand"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/config"
	"github.com/vbonduro/urbanhomes/internal/db"
	"github.com/vbonduro/urbanhomes/internal/logging"
	"github.com/vbonduro/urbanhomes/internal/photostore"
	"github.com/vbonduro/urbanhomes/internal/photostore/local"
	s3store "github.com/vbonduro/urbanhomes/internal/photostore/s3"
	"github.com/vbonduro/urbanhomes/internal/query"
	"github.com/vbonduro/urbanhomes/internal/service"
	"github.com/vbonduro/urbanhomes/internal/session"
	"github.com/vbonduro/urbanhomes/internal/store"
	"github.com/vbonduro/urbanhomes/internal/vision"
	claudevision "github.com/vbonduro/urbanhomes/internal/vision/claude"
	ollamavision "github.com/vbonduro/urbanhomes/internal/vision/ollama"
	"github.com/vbonduro/urbanhomes/internal/web"
	"github.com/vbonduro/urbanhomes/internal/web/templates"
	"github.com/vbonduro/urbanhomes/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	staging, err := newPhotoStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize photo store", "backend", cfg.PhotoBackend, "error", err)
		return
	}

	client := apiclient.New(cfg.APIURL,
		apiclient.WithTokenSource(session.ContextTokens{}),
		apiclient.WithLogger(logger),
	)
	properties := service.NewPropertyService(client)
	uploader := service.NewImageUploader(store.NewPendingImageStore(database), staging, properties, logger)

	janitor := worker.NewJanitor(uploader, cfg.JanitorCron, cfg.StagingMaxAge, logger)
	if err := janitor.Start(ctx); err != nil {
		logger.Error("failed to start staging janitor", "error", err)
		return
	}
	defer janitor.Stop()

	server := web.NewServer(web.Deps{
		API:        client,
		Properties: properties,
		Inquiries:  service.NewInquiryService(client),
		Auth:       service.NewAuthService(client),
		Uploader:   uploader,
		Describer:  newDescriber(cfg, logger),
		Queries:    query.NewClient(newQueryStore(cfg, logger), cfg.CacheTTL, logger),
		Cookies:    session.NewCookieStore(sessionKey(cfg, logger), cfg.SecureCookies),
		Site:       cfg.Site,
		Templates:  templates.FS,
		Logger:     logger,
	})

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newPhotoStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (photostore.PhotoStore, error) {
	if cfg.PhotoBackend == "s3" {
		return s3store.NewS3PhotoStore(ctx, s3store.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			KeyPrefix:       cfg.S3.KeyPrefix,
		})
	}
	return local.New(cfg.PhotoPath, logger)
}

func newQueryStore(cfg *config.Config, logger *slog.Logger) query.Store {
	if cfg.CacheBackend == "redis" {
		logger.Info("using redis query cache", "addr", cfg.RedisAddr)
		return query.NewRedisStore(query.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword), "urbanhomes:")
	}
	return query.NewMemoryStore(cfg.CacheSize, cfg.CacheTTL)
}

func newDescriber(cfg *config.Config, logger *slog.Logger) vision.Describer {
	switch cfg.VisionBackend {
	case "claude":
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeDescriber(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.New(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil
	}
}

// sessionKey falls back to a random key, which logs everyone out on restart.
func sessionKey(cfg *config.Config, logger *slog.Logger) []byte {
	if cfg.SessionKey != "" {
		return []byte(cfg.SessionKey)
	}
	logger.Warn("SESSION_KEY is not set; sessions will not survive a restart")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate session key: %v", err)
	}
	return key
}
