package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"nutricoach-backend/internal/checkins"
	"nutricoach-backend/internal/recommendations"
	"nutricoach-backend/internal/shared/config"
	"nutricoach-backend/internal/shared/metrics"
	"nutricoach-backend/internal/shared/server"
	"nutricoach-backend/internal/shared/server/middleware"
	"nutricoach-backend/internal/shared/storage/db"
	"nutricoach-backend/internal/shared/storage/kv"
	"nutricoach-backend/internal/shared/storage/object"
	localstore "nutricoach-backend/internal/shared/storage/object/local"
	s3store "nutricoach-backend/internal/shared/storage/object/s3"
	"nutricoach-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config                config.Config
	Router                *gin.Engine
	DB                    *sql.DB
	Redis                 *redis.Client
	Store                 object.Store
	KV                    kv.Store
	CheckinsRepo          checkins.Repo
	CheckinsService       *checkins.Service
	CheckinHandler        *checkins.Handler
	RecommendationHandler *recommendations.Handler
}

// Build connects storage, constructs services and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	cache, redisClient, err := buildKV(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  redisClient,
		Store:  store,
		KV:     cache,
	}
	buildServices(app)

	deps := server.RouterDeps{
		Config:                app.Config,
		CheckinHandler:        app.CheckinHandler,
		RecommendationHandler: app.RecommendationHandler,
		Limiter:               middleware.NewRateLimiter(nil),
	}
	if app.DB != nil {
		deps.DB = app.DB
		if err := metrics.RegisterDBStats(app.DB, "checkins"); err != nil {
			telemetry.Warn("bootstrap.db_metrics_failed", map[string]any{"error": err.Error()})
		}
	}
	app.Router = server.NewRouter(deps)

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"object_store": cfg.ObjectStoreType,
		"database":     app.DB != nil,
		"redis":        app.Redis != nil,
	})
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_missing", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_failed", map[string]any{"fallback": "memory", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildKV(ctx context.Context, cfg config.Config) (kv.Store, *redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return kv.NewMemoryStore(), nil, nil
	}
	store, client, err := kv.Dial(ctx, cfg.RedisURL, cfg.RedisTTL)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.redis_failed", map[string]any{"fallback": "memory", "error": err.Error()})
			return kv.NewMemoryStore(), nil, nil
		}
		return nil, nil, err
	}
	return store, client, nil
}

func buildServices(app *App) {
	var repo checkins.Repo
	if app.DB != nil {
		repo = &checkins.PGRepo{DB: app.DB}
	} else {
		repo = checkins.NewMemoryRepo()
	}

	svc := &checkins.Service{
		Repo:            repo,
		Store:           app.Store,
		KV:              app.KV,
		FallbackMessage: app.Config.FallbackMessage,
	}

	app.CheckinsRepo = repo
	app.CheckinsService = svc
	app.CheckinHandler = checkins.NewHandler(svc)
	app.RecommendationHandler = recommendations.NewHandler(app.Store)
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB != nil {
		sqlDB.Close()
	}
}
