package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/openfedcloud/fedmgr/internal/api"
	"github.com/openfedcloud/fedmgr/internal/api/handlers"
	"github.com/openfedcloud/fedmgr/internal/queue/tasks"
	"github.com/openfedcloud/fedmgr/internal/repository"
	"github.com/openfedcloud/fedmgr/internal/services"
	"github.com/openfedcloud/fedmgr/pkg/config"
	"github.com/openfedcloud/fedmgr/pkg/database"
	"github.com/openfedcloud/fedmgr/pkg/logger"
)

// @title           Federation Registry API
// @version         1.0
// @description     Management service for federated cloud providers, identity providers, regions, projects and SLAs

// @contact.name   OpenFedCloud operations
// @contact.email  ops@openfedcloud.org

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat, zap.String("component", "api"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting federation registry",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to access database handle", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	idpRepo := repository.NewIdentityProviderRepository(db)
	groupRepo := repository.NewUserGroupRepository(db)
	slaRepo := repository.NewSLARepository(db)
	regionRepo := repository.NewRegionRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	idpLinkRepo := repository.NewIdpOverrideRepository(db)
	regionLinkRepo := repository.NewRegionOverrideRepository(db)
	tx := database.NewTransactor(db)

	// Queue client for evaluation announcements
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer asynqClient.Close()
	notifier := tasks.NewEnqueuer(asynqClient)

	// Services
	userSvc := services.NewUserService(userRepo)
	providerSvc := services.NewProviderService(providerRepo, idpRepo, userRepo, idpLinkRepo, tx, notifier)
	identitySvc := services.NewIdentityService(idpRepo, groupRepo, slaRepo)
	regionSvc := services.NewRegionService(regionRepo, providerRepo, locationRepo, tx, notifier)
	projectSvc := services.NewProjectService(projectRepo, providerRepo, regionRepo, slaRepo, regionLinkRepo, tx, notifier)

	// JWT secret from environment
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	validate := validator.New()

	router := api.NewRouter(api.Dependencies{
		HMACSecret:       jwtSecret,
		TrustedIssuer:    cfg.TrustedIssuer,
		UserResolver:     userSvc,
		DB:               sqlDB,
		UsersHandler:     handlers.NewUsersHandler(userSvc, validate),
		IdpsHandler:      handlers.NewIdpsHandler(identitySvc, validate),
		ProvidersHandler: handlers.NewProvidersHandler(providerSvc, validate),
		RegionsHandler:   handlers.NewRegionsHandler(regionSvc, validate),
		ProjectsHandler:  handlers.NewProjectsHandler(projectSvc, validate),
		LocationsHandler: handlers.NewLocationsHandler(regionSvc, validate),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
