package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hrms-backend/internal/config"
	"hrms-backend/internal/database"
	"hrms-backend/internal/handler"
	"hrms-backend/internal/logger"
	"hrms-backend/internal/middleware"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/service"
	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("failed to load configuration", "error", err)
	}
	log := logger.New(cfg.Server.LogLevel)
	log.Info("configuration loaded", "gin_mode", cfg.Server.GinMode, "auth_disabled", cfg.Auth.Disabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Initialize database connection and schema
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}
	log.Info("database connected")

	// 3. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	tokenRepo := repository.NewRefreshTokenRepo(db, cfg.JWT.RefreshTTL())
	auditRepo := repository.NewAuditRepo(db)
	orgRepo := repository.NewOrgRepo(db)
	projectRepo := repository.NewProjectRepo(db)
	subProjectRepo := repository.NewSubProjectRepo(db)

	// 4. Initialize services
	codec := utils.NewTokenCodec(cfg.JWT.Secret)
	creds, err := service.NewCredentialService(userRepo, cfg.JWT.BcryptCost, log)
	if err != nil {
		log.Fatal("failed to initialize credential store", "error", err)
	}
	authService := service.NewAuthService(creds, userRepo, roleRepo, tokenRepo, auditRepo, codec, cfg.JWT.AccessTTL(), log)
	userService := service.NewUserService(creds, userRepo, roleRepo, tokenRepo, auditRepo, log)
	orgService := service.NewOrgService(orgRepo, log)
	projectService := service.NewProjectService(projectRepo, auditRepo, log)
	subProjectService := service.NewSubProjectService(subProjectRepo, projectRepo)
	workerService := service.NewWorkerService(tokenRepo, cfg.Session.CleanupInterval, cfg.Session.Retention(), log)

	// 5. Seed roles and the optional bootstrap admin
	if err := userService.SeedRoles(ctx); err != nil {
		log.Fatal("failed to seed roles", "error", err)
	}
	adminID, err := userService.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		log.Error("failed to seed admin", "error", err)
	}

	// 6. Register handlers
	handlers := handler.Handlers{
		Health:     handler.NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }),
		Auth:       handler.NewAuthHandler(authService, cfg.JWT.RefreshTTL(), cfg.IsRelease(), log),
		User:       handler.NewUserHandler(userService, log),
		Org:        handler.NewOrgHandler(orgService, log),
		Project:    handler.NewProjectHandler(projectService, log),
		SubProject: handler.NewSubProjectHandler(subProjectService, log),
	}

	// Daily scrums live in MongoDB; the routes are mounted only when it is reachable
	mongoClient, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		log.Warn("mongo unavailable, scrum routes disabled", "error", err)
	} else {
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Disconnect(disconnectCtx)
		}()
		scrumRepo := repository.NewScrumRepo(mongoClient.Database(cfg.Mongo.Database))
		if err := scrumRepo.EnsureIndexes(ctx); err != nil {
			log.Warn("failed to ensure scrum indexes", "error", err)
		}
		handlers.Scrum = handler.NewScrumHandler(service.NewScrumService(scrumRepo, subProjectService), log)
		log.Info("mongo connected", "database", cfg.Mongo.Database)
	}

	// 7. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	guard := middleware.NewGuard(cfg.Auth.Disabled, adminID, codec, log)
	handler.RegisterRoutes(r, handlers, guard, cfg.Auth.Roles)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Run the server and the session cleanup worker until a signal arrives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return workerService.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		return
	}
	log.Info("server exited")
}
