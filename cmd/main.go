package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/surya-pratap-s/notes-saas/internal/config"
	"github.com/surya-pratap-s/notes-saas/internal/handler"
	"github.com/surya-pratap-s/notes-saas/internal/handler/middleware"
	"github.com/surya-pratap-s/notes-saas/internal/repository/postgres"
	"github.com/surya-pratap-s/notes-saas/internal/service"
	"github.com/surya-pratap-s/notes-saas/pkg/blacklist"
	"github.com/surya-pratap-s/notes-saas/pkg/email"
	"github.com/surya-pratap-s/notes-saas/pkg/jwt"
	"github.com/surya-pratap-s/notes-saas/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := initDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", zap.Error(err))
		}
	}()
	logger.Info("database connection established")

	redisClient, err := initRedis(cfg)
	if err != nil {
		logger.Fatal("failed to initialize redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("error closing redis connection", zap.Error(err))
		}
	}()
	logger.Info("redis connection established")

	validate := validator.NewValidator()

	// Repositories
	tenantRepo := postgres.NewTenantRepository(db)
	userRepo := postgres.NewUserRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	noteRepo := postgres.NewNoteRepository(db)

	tokenService, err := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatal("failed to initialize token service", zap.Error(err))
	}

	tokenBlacklist := blacklist.NewTokenBlacklist(redisClient)

	var emailService email.EmailService
	if cfg.Email.Enabled {
		emailService, err = email.NewResendEmailService(&email.EmailConfig{
			APIKey:    cfg.Email.APIKey,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			SignupURL: cfg.Email.SignupURL,
		})
		if err != nil {
			logger.Warn("email service disabled", zap.Error(err))
			emailService = nil
		} else {
			logger.Info("email service initialized")
		}
	} else {
		logger.Info("email service disabled (set EMAIL_ENABLED=true to enable)")
	}

	// Services
	authService := service.NewAuthService(userRepo, tenantRepo, tokenService, tokenBlacklist, logger)
	tenantService := service.NewTenantService(tenantRepo, tokenService, logger)
	invitationService := service.NewInvitationService(invitationRepo, emailService, cfg.Quota.InvitationTTL, logger)
	noteService := service.NewNoteService(noteRepo, cfg.Quota.FreePlanNoteLimit, logger)
	userService := service.NewUserService(userRepo, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validate)
	tenantHandler := handler.NewTenantHandler(tenantService, validate)
	invitationHandler := handler.NewInvitationHandler(invitationService, validate)
	noteHandler := handler.NewNoteHandler(noteService, validate)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler()

	app := fiber.New(fiber.Config{
		AppName:      "Notes SaaS v1.0",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(middleware.RecoveryMiddleware(logger))
	app.Use(middleware.LoggerMiddleware(logger))
	app.Use(middleware.CORSMiddleware(cfg.Server.ClientURL))

	authMiddleware := middleware.AuthMiddleware(authService)
	requireAdmin := middleware.RequireAdmin()

	handler.SetupRoutes(
		app,
		authHandler,
		tenantHandler,
		invitationHandler,
		noteHandler,
		userHandler,
		healthHandler,
		authMiddleware,
		requireAdmin,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := app.Listen(addr); err != nil {
			logger.Error("server failed to start", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// newLogger builds a zap logger matching the environment
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// initDB initializes the PostgreSQL connection pool with retry logic
func initDB(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		logger.Warn("failed to connect to database",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// initRedis initializes the Redis client and verifies the connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping redis: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
