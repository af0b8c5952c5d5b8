package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-connect-api/api/swagger"
	"github.com/noah-isme/school-connect-api/internal/handler"
	"github.com/noah-isme/school-connect-api/internal/repository"
	"github.com/noah-isme/school-connect-api/internal/server"
	"github.com/noah-isme/school-connect-api/internal/service"
	"github.com/noah-isme/school-connect-api/pkg/cache"
	"github.com/noah-isme/school-connect-api/pkg/config"
	"github.com/noah-isme/school-connect-api/pkg/database"
	"github.com/noah-isme/school-connect-api/pkg/logger"
	"github.com/noah-isme/school-connect-api/pkg/realtime"
	"github.com/noah-isme/school-connect-api/pkg/storage"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

// @title School Connect API
// @version 1.0.0
// @description Messaging, discussions and calendars for teachers, parents and students
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck
	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to apply schema", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache and fan-out", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	metrics := service.NewMetricsService()
	validate := validation.New()

	users := repository.NewUserRepository(db)
	semesters := repository.NewSemesterRepository(db)
	messages := repository.NewMessageRepository(db)
	discussions := repository.NewDiscussionRepository(db)
	events := repository.NewCalendarRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, "school-connect")
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(users, cacheSvc, validate, logr)
	semesterSvc := service.NewSemesterService(semesters, users, users, validate, logr)

	hub := realtime.NewHub(logr, metrics.TrackConnections)
	defer hub.Close()
	notifier := buildNotifier(ctx, cfg, hub, redisClient, metrics, logr)

	policy := service.PolicyPermissive
	if cfg.Messaging.RestrictToCounterparts {
		policy = service.PolicyCounterpartsOnly
	}
	messageSvc := service.NewMessageService(service.MessageServiceDeps{
		Messages:  messages,
		Semesters: semesters,
		Accounts:  users,
		Profiles:  userSvc,
		Notifier:  notifier,
		Metrics:   metrics,
		Policy:    policy,
		Validator: validate,
		Logger:    logr,
	})
	discussionSvc := service.NewDiscussionService(discussions, semesters, validate, logr)
	calendarSvc := service.NewCalendarService(events, semesters, validate, logr)
	exportSvc := service.NewExportService(calendarSvc, logr)

	store, err := storage.NewLocalStorage(cfg.Attachments.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare attachment storage", zap.Error(err))
	}
	attachmentSvc := service.NewAttachmentService(store,
		storage.NewSignedURLSigner(cfg.Attachments.SignedURLSecret, cfg.Attachments.SignedURLTTL),
		service.AttachmentConfig{
			APIPrefix:    cfg.APIPrefix,
			MaxFileSize:  cfg.Attachments.MaxFileSizeBytes,
			AllowedMIMEs: cfg.Attachments.AllowedMIMEs,
		}, logr)

	checks := map[string]handler.ReadinessCheck{"postgres": db.PingContext}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router := server.NewRouter(server.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		AuthPerMinute:  cfg.RateLimit.AuthPerMinute,
		Logger:         logr,
		Metrics:        metrics,
		Resolver:       authSvc,
		Audit:          users,
		Auth:           handler.NewAuthHandler(authSvc),
		Users:          handler.NewUserHandler(userSvc),
		Semesters:      handler.NewSemesterHandler(semesterSvc),
		Messages:       handler.NewMessageHandler(messageSvc),
		Discussions:    handler.NewDiscussionHandler(discussionSvc),
		Calendar:       handler.NewCalendarHandler(calendarSvc, exportSvc),
		Attachments:    handler.NewAttachmentHandler(attachmentSvc),
		Realtime:       handler.NewWSHandler(authSvc, hub, realtime.NewUpgrader(cfg.Realtime.AllowedOrigins), logr),
		Probes:         handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("messaging_policy", policy.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if qn, ok := notifier.(*service.QueueNotifier); ok {
		qn.Stop()
	}
}

// buildNotifier selects how realtime events leave this instance: through Redis when a
// shared channel is available, straight into the local hub otherwise.
func buildNotifier(ctx context.Context, cfg *config.Config, hub *realtime.Hub, client *redis.Client, metrics *service.MetricsService, logr *zap.Logger) service.Notifier {
	if !cfg.Realtime.Enabled {
		return service.NoopNotifier{}
	}

	var publisher realtime.Publisher = hub
	if client != nil && cfg.Realtime.RedisChannel != "" {
		bridge := realtime.NewRedisBridge(client, cfg.Realtime.RedisChannel, hub, logr)
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logr.Error("realtime bridge stopped", zap.Error(err))
			}
		}()
		publisher = bridge
	}

	notifier := service.NewQueueNotifier(publisher, metrics, logr, cfg.Realtime.QueueWorkers, cfg.Realtime.QueueBuffer)
	notifier.Start(ctx)
	return notifier
}
