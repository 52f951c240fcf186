package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Fingel/fastastro/database"
	"github.com/Fingel/fastastro/internal/auth"
	"github.com/Fingel/fastastro/internal/config"
	"github.com/Fingel/fastastro/internal/email"
	"github.com/Fingel/fastastro/internal/handlers"
	"github.com/Fingel/fastastro/internal/logger"
	"github.com/Fingel/fastastro/internal/middleware"
	"github.com/Fingel/fastastro/internal/models"
	"github.com/Fingel/fastastro/internal/repositories"
	"github.com/Fingel/fastastro/internal/routes"
	"github.com/Fingel/fastastro/internal/services"
	"github.com/Fingel/fastastro/internal/validator"
)

func Run() {
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	backend, err := email.NewBackend(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize email backend", "error", err)
	}
	dispatcher := email.NewDispatcher(backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	dispatcher.Start(ctx)
	logger.Info("Email dispatcher started", "backend", cfg.Email.Backend)

	if err := seedSuperuser(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed superuser", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, dispatcher)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter assembles the full handler chain. Tests call this
// directly with their own database and dispatcher.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, dispatcher *email.Dispatcher) *gin.Engine {
	userRepo := repositories.NewUserRepository(gormDB)
	sourceRepo := repositories.NewSourceRepository(gormDB)

	tokens := auth.NewTokenService(cfg.JWT.Secret)
	authService := services.NewAuthService(userRepo, tokens, dispatcher, cfg)
	sourceService := services.NewSourceService(sourceRepo)

	base := handlers.NewBaseHandler(validator.New())
	authHandler := handlers.NewAuthHandler(base, authService, tokens)
	sourceHandler := handlers.NewSourceHandler(base, sourceService, tokens)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, authHandler, sourceHandler)
	return ginRouter
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())
	return ginRouter
}

// seedSuperuser creates the configured admin account once, with a
// password taken from ADMIN_PASSWORD. Skipped when either is unset.
func seedSuperuser(db *gorm.DB, cfg *config.Config) error {
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if cfg.AdminEmail == "" || adminPassword == "" {
		logger.Warn("Admin email or ADMIN_PASSWORD not set, skipping superuser seeding")
		return nil
	}

	users := repositories.NewUserRepository(db)
	if _, err := users.FindByEmail(cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:          cfg.AdminEmail,
		FirstName:      "Admin",
		HashedPassword: hashed,
		IsActive:       true,
		IsSuperuser:    true,
		EmailVerified:  true,
	}
	if err := users.Create(admin); err != nil {
		return err
	}
	logger.Info("Superuser seeded", "email", cfg.AdminEmail)
	return nil
}
