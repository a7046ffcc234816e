package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/dashboard"
	"pitchmate-backend/internal/emails"
	"pitchmate-backend/internal/llm"
	"pitchmate-backend/internal/llm/gemini"
	"pitchmate-backend/internal/notify"
	"pitchmate-backend/internal/resumes"
	"pitchmate-backend/internal/shared/auth"
	"pitchmate-backend/internal/shared/config"
	"pitchmate-backend/internal/shared/mail"
	"pitchmate-backend/internal/shared/server"
	mongostore "pitchmate-backend/internal/shared/storage/mongo"
	"pitchmate-backend/internal/shared/storage/object"
	localstore "pitchmate-backend/internal/shared/storage/object/local"
	s3store "pitchmate-backend/internal/shared/storage/object/s3"
	"pitchmate-backend/internal/shared/telemetry"
	"pitchmate-backend/internal/users"
)

const connectTimeout = 10 * time.Second

// App holds the wired application.
type App struct {
	Config config.Config
	Router *gin.Engine

	Store  object.ObjectStore
	Tokens *auth.TokenService
	Notify *notify.Service
	LLM    llm.Client

	UsersRepo   users.Repo
	EmailsRepo  emails.Repo
	ResumesRepo resumes.Repo

	UsersService     *users.Service
	EmailsService    *emails.Service
	ResumesService   *resumes.Service
	DashboardService *dashboard.Service
}

// Build prepares all dependencies and the router. A configured but
// unreachable database is a startup failure; an empty MONGODB_URI outside
// production falls back to in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if cfg.IsProduction() && strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	app := &App{Config: cfg}

	if err := buildRepos(ctx, cfg, app); err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	app.Tokens = auth.NewTokenService(cfg.JWTSecret)
	app.Notify = buildNotify(cfg)
	app.LLM = buildLLM(cfg)

	app.UsersService = users.NewService(app.UsersRepo, app.Store, app.Notify)
	app.EmailsService = emails.NewService(app.EmailsRepo, app.UsersRepo, app.LLM, app.Notify)
	app.ResumesService = resumes.NewService(app.ResumesRepo, app.UsersRepo, app.LLM, app.Store, app.Notify)
	app.DashboardService = dashboard.NewService(app.EmailsRepo, app.ResumesRepo)

	deps := server.RouterDeps{
		Config:           cfg,
		Tokens:           app.Tokens,
		UsersHandler:     users.NewHandler(app.UsersService, app.Tokens, cfg.IsProduction()),
		EmailsHandler:    emails.NewHandler(app.EmailsService),
		ResumesHandler:   resumes.NewHandler(app.ResumesService),
		DashboardHandler: dashboard.NewHandler(app.DashboardService),
	}
	if local, ok := store.(*localstore.Store); ok {
		deps.LocalFilesDir = local.BaseDir()
	}
	app.Router = server.NewRouter(deps)

	return app, nil
}

func buildRepos(ctx context.Context, cfg config.Config, app *App) error {
	if strings.TrimSpace(cfg.MongoURI) == "" {
		if cfg.IsProduction() {
			return fmt.Errorf("MONGODB_URI is required in production")
		}
		telemetry.Info("bootstrap.memory_repos", map[string]any{
			"reason": "MONGODB_URI empty",
		})
		app.UsersRepo = users.NewMemoryRepo()
		app.EmailsRepo = emails.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
		return nil
	}

	db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}

	usersRepo, err := users.NewMongoRepo(ctx, db)
	if err != nil {
		return err
	}
	app.UsersRepo = usersRepo
	app.EmailsRepo = emails.NewMongoRepo(db)
	app.ResumesRepo = resumes.NewMongoRepo(db)
	telemetry.Info("bootstrap.mongo_connected", map[string]any{"db": cfg.MongoDB})
	return nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildNotify wires the SMTP mailer. Missing SMTP configuration only
// disables notifications; it never blocks startup.
func buildNotify(cfg config.Config) *notify.Service {
	mailer, err := mail.NewMailer()
	if err != nil {
		telemetry.Info("bootstrap.mail_disabled", map[string]any{"reason": err.Error()})
		return notify.NewService(nil, cfg.ClientURL)
	}
	return notify.NewService(mailer, cfg.ClientURL)
}

// buildLLM wires the Gemini client, or a placeholder that fails every call
// when no API key is configured.
func buildLLM(cfg config.Config) llm.Client {
	client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		telemetry.Info("bootstrap.llm_placeholder", map[string]any{"reason": err.Error()})
		return llm.PlaceholderClient{}
	}
	return client
}
