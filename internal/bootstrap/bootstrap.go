package bootstrap

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/stjtech/admissions/internal/app/controllers"
	appMigrations "github.com/stjtech/admissions/internal/app/migrations"
	appRepos "github.com/stjtech/admissions/internal/app/repositories"
	appRoutes "github.com/stjtech/admissions/internal/app/routes"
	appServices "github.com/stjtech/admissions/internal/app/services"
	"github.com/stjtech/admissions/internal/config"
	"github.com/stjtech/admissions/internal/db"
	"github.com/stjtech/admissions/internal/notify"
	"github.com/stjtech/admissions/internal/pkg/email"
	"github.com/stjtech/admissions/internal/pkg/logger"
	"github.com/stjtech/admissions/internal/pkg/refnum"
)

// Dependencies holds the wired application components.
type Dependencies struct {
	ApplicationService    appServices.ApplicationService
	ApplicationController *appControllers.ApplicationController
	Repository            appRepos.ApplicationRepository
	Notifier              *notify.EmailNotifier
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initialises the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  strings.ToLower(cfg.Logging.Level),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to postgres and runs migrations. It is only
// called when the postgres storage driver is selected.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildRepository selects the persistence sink by config.
func BuildRepository(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (appRepos.ApplicationRepository, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		if dbPool == nil {
			return nil, fmt.Errorf("postgres storage selected but no database pool available")
		}
		return appRepos.NewPostgresApplicationRepository(dbPool), nil
	case config.StorageFile:
		return appRepos.NewFileApplicationRepository(cfg.Storage.Dir)
	case config.StorageMemory:
		lgr.Warn().Msg("Using in-memory storage, applications will not survive a restart")
		return appRepos.NewMemoryApplicationRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// BuildDependencies wires repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	repo, err := BuildRepository(cfg, dbPool, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to build application repository: %w", err)
	}
	deps.Repository = repo

	emailService := email.NewService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	deps.Notifier = notify.NewEmailNotifier(emailService, cfg.Submission.NotifyQueueSize, lgr)

	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repository,
		refnum.NewGenerator(),
		deps.Notifier,
		cfg.Submission.ReferenceAttempts,
		lgr,
	)

	deps.ApplicationController = appControllers.NewApplicationController(
		deps.ApplicationService,
		!cfg.IsProduction(),
	)

	return deps, nil
}

// SetupRouter configures the gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router, deps.ApplicationController)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
