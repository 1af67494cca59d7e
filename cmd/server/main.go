package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Dorstol/BitBuddies/internal/config"
	"github.com/Dorstol/BitBuddies/internal/infrastructure/repositories"
	"github.com/Dorstol/BitBuddies/internal/infrastructure/storage"
	"github.com/Dorstol/BitBuddies/internal/interfaces/http/handlers"
	"github.com/Dorstol/BitBuddies/internal/interfaces/http/middleware"
	"github.com/Dorstol/BitBuddies/internal/usecases"
	"github.com/Dorstol/BitBuddies/pkg/jwt"
	"github.com/Dorstol/BitBuddies/pkg/logger"
	"github.com/Dorstol/BitBuddies/pkg/mail"
	"github.com/Dorstol/BitBuddies/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	newSessionStore = redis.NewSessionStore
	newPhotoStore   = func(dir string) (storage.PhotoStore, error) { return storage.NewLocalPhotoStore(dir) }
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
		cfg.JWT.ActionExpiry,
	)

	// Initialize mailer and photo store
	mailer := mail.NewMailer(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		cfg.Mail.Password,
		cfg.Mail.FromName,
		cfg.Mail.FromEmail,
		cfg.Mail.FrontendURL,
	)

	photoStore, err := newPhotoStore(cfg.Upload.PhotoDir)
	if err != nil {
		return fmt.Errorf("failed to initialize photo store: %w", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Initialize usecases
	accountUsecase := usecases.NewAccountUsecase(userRepo, teamRepo, jwtService, mailer, photoStore)
	teamUsecase := usecases.NewTeamUsecase(teamRepo, uow)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountUsecase, sessionStore, cfg.Security.SessionExpiry)
	userHandler := handlers.NewUserHandler(accountUsecase)
	teamHandler := handlers.NewTeamHandler(teamUsecase)

	// Auth middleware accepts bearer tokens and opaque sessions
	authMiddleware := middleware.AuthMiddleware(jwtService, sessionStore)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	applyCORSMiddleware(r, cfg.Mail.FrontendURL)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		userHandler:    userHandler,
		teamHandler:    teamHandler,
		authMiddleware: authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
	}()

	// Start server
	log.Printf("BitBuddies backend starting on port %s", cfg.Server.Port)
	log.Printf("API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
