package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/billing"
	"resume-builder/internal/enhance"
	"resume-builder/internal/export"
	"resume-builder/internal/images"
	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/profiles"
	"resume-builder/internal/queue"
	"resume-builder/internal/quiz"
	"resume-builder/internal/resumes"
	"resume-builder/internal/scoring"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	cloudinarystore "resume-builder/internal/shared/storage/object/cloudinary"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/templates"
)

const llmTimeout = 30 * time.Second

// App holds the wired services of one process.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore

	Profiles  *profiles.Service
	Billing   *billing.Service
	Resumes   *resumes.Service
	Templates *templates.Service
	Enhance   *enhance.Service
	Quiz      *quiz.Service
	Export    *export.Service
	Images    *images.Service

	closers []func() error
}

// Overrides replaces collaborators that tests cannot reach.
type Overrides struct {
	LLM     llm.Client
	Printer export.Printer
	Store   object.ObjectStore
}

// Build wires every service and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, Overrides{})
}

func BuildWith(cfg config.Config, ov Overrides) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()
	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	app.Redis = buildRedis(ctx, cfg)
	if app.Redis != nil {
		app.closers = append(app.closers, app.Redis.Close)
	}

	store := ov.Store
	if store == nil {
		if store, err = buildStore(ctx, cfg); err != nil {
			app.Close()
			return nil, err
		}
	}
	app.Store = store

	if err := buildServices(ctx, app, ov); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Close waits for in-process enhancements and releases connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Enhance != nil {
		a.Enhance.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			telemetry.Warn("bootstrap.close_failed", map[string]any{"error": err.Error()})
		}
	}
	a.closers = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultServerOptions().Override(cfg.DBPool))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

// buildRedis returns nil when Redis is not configured or unreachable; the
// template catalog then reads straight from its source.
func buildRedis(ctx context.Context, cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
		_ = client.Close()
		return nil
	}
	return client
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "cloudinary":
		return cloudinarystore.New(cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySecret, cfg.CloudinaryFolder)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func buildCatalog(ctx context.Context, app *App) (templates.Catalog, error) {
	var catalog templates.Catalog
	if app.DB != nil {
		pg := &templates.PGCatalog{DB: app.DB}
		defaults, err := templates.DefaultDescriptors()
		if err != nil {
			return nil, err
		}
		if err := pg.Seed(ctx, defaults); err != nil {
			return nil, fmt.Errorf("seed templates: %w", err)
		}
		catalog = pg
	} else {
		mem, err := templates.DefaultCatalog()
		if err != nil {
			return nil, err
		}
		catalog = mem
	}
	if app.Redis != nil {
		catalog = templates.NewCachedCatalog(catalog, app.Redis, templates.DefaultCacheTTL)
	}
	return catalog, nil
}

func buildLLM(ctx context.Context, app *App) (llm.Client, error) {
	client, err := providerClient(ctx, app)
	if err != nil && isDevLike(app.Config.Env) {
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": app.Config.LLMProvider, "error": err.Error()})
		return llm.PlaceholderClient{}, nil
	}
	return client, err
}

func providerClient(ctx context.Context, app *App) (llm.Client, error) {
	cfg := app.Config
	var client llm.Client
	switch cfg.LLMProvider {
	case "openai":
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, llmTimeout)
		if err != nil {
			return nil, err
		}
		client = c
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, c.Close)
		client = c
	default:
		return llm.PlaceholderClient{}, nil
	}
	return llm.WithRetry(client, llm.DefaultRetryDelay), nil
}

func buildFlagger(app *App) (billing.Flagger, error) {
	if len(app.Config.KafkaBrokers) == 0 {
		return billing.LogFlagger{}, nil
	}
	k, err := billing.NewKafkaFlagger(app.Config.KafkaBrokers, app.Config.ReconcileTopic)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, k.Close)
	return k, nil
}

func buildDispatcher(ctx context.Context, cfg config.Config) (enhance.Dispatcher, error) {
	if strings.TrimSpace(cfg.EnhanceQueueURL) == "" {
		return nil, nil
	}
	client, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.EnhanceQueueURL)
	if err != nil {
		return nil, err
	}
	return enhance.QueueDispatcher{Queue: client}, nil
}

func buildServices(ctx context.Context, app *App, ov Overrides) error {
	cfg := app.Config

	var (
		resumeRepo  resumes.Repo
		profileRepo profiles.Repo
	)
	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		profileRepo = &profiles.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		profileRepo = profiles.NewMemoryRepo()
	}

	catalog, err := buildCatalog(ctx, app)
	if err != nil {
		return err
	}
	tmplSvc, err := templates.NewService(catalog)
	if err != nil {
		return err
	}

	client := ov.LLM
	if client == nil {
		if client, err = buildLLM(ctx, app); err != nil {
			return err
		}
	}
	flagger, err := buildFlagger(app)
	if err != nil {
		return err
	}
	dispatcher, err := buildDispatcher(ctx, cfg)
	if err != nil {
		return err
	}
	printer := ov.Printer
	if printer == nil {
		printer = export.NewChromePrinter(cfg.ChromePath)
	}

	profileSvc := profiles.NewService(profileRepo)
	resumeSvc := resumes.NewService(resumeRepo, tmplSvc)
	enhanceSvc := enhance.NewService(resumeRepo, client, dispatcher)
	enhanceSvc.PollEvery = cfg.EnhancePollEvery
	enhanceSvc.MaxPolls = cfg.EnhanceMaxPolls

	app.Profiles = profileSvc
	app.Billing = billing.NewService(profiles.BillingAccounts{Repo: profileRepo}, flagger)
	app.Resumes = resumeSvc
	app.Templates = tmplSvc
	app.Enhance = enhanceSvc
	app.Quiz = quiz.NewService(resumeSvc, enhanceSvc)
	app.Export = export.NewService(resumeSvc, tmplSvc, printer)
	app.Images = images.NewService(app.Store, resumeSvc)

	checks := health.NewService()
	if app.DB != nil {
		checks.Register("database", app.DB.PingContext)
	}
	if app.Redis != nil {
		checks.Register("redis", func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() })
	}

	gate := profiles.RequireActiveSubscription(profileSvc)
	deps := server.RouterDeps{
		Config:     cfg,
		Gate:       gate,
		Health:     checks,
		GoogleAuth: googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, profileSvc),
		Webhooks:   billing.NewWebhookHandler(app.Billing, cfg.StripeWebhookKey),
		Profiles:   profiles.NewHandler(profileSvc),
		Resumes:    resumes.NewHandler(resumeSvc, gate),
		Quiz:       quiz.NewHandler(app.Quiz),
		Templates:  templates.NewHandler(tmplSvc, resumeSvc),
		Scoring:    scoring.NewHandler(resumeSvc),
		Enhance:    enhance.NewHandler(enhanceSvc),
		Images:     images.NewHandler(app.Images),
		Export:     export.NewHandler(app.Export),
	}
	if local, ok := app.Store.(*localstore.Store); ok {
		deps.FilesDir = local.Dir()
	}
	app.Router = server.NewRouter(deps)
	if app.Router == nil {
		return errors.New("failed to initialize router")
	}
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
