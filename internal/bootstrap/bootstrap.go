package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/eborodin/eventum/internal/app/auth"
	appControllers "github.com/eborodin/eventum/internal/app/controllers"
	appMigrations "github.com/eborodin/eventum/internal/app/migrations"
	appRepos "github.com/eborodin/eventum/internal/app/repositories"
	appRoutes "github.com/eborodin/eventum/internal/app/routes"
	appServices "github.com/eborodin/eventum/internal/app/services"
	"github.com/eborodin/eventum/internal/config"
	"github.com/eborodin/eventum/internal/db"
	appMiddleware "github.com/eborodin/eventum/internal/middleware"
	"github.com/eborodin/eventum/internal/pkg/logger"
	"github.com/eborodin/eventum/internal/pkg/stats"
	"github.com/eborodin/eventum/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	EventService       appServices.EventService
	RequestService     appServices.RequestService
	CategoryService    appServices.CategoryService
	UserService        appServices.UserService
	CompilationService appServices.CompilationService

	EventController       *appControllers.EventController
	RequestController     *appControllers.RequestController
	CategoryController    *appControllers.CategoryController
	UserController        *appControllers.UserController
	CompilationController *appControllers.CompilationController

	Repos       *appRepos.Repositories
	Ownership   *appAuth.OwnershipService
	StatsClient *stats.Client
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "pretty" || strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is a convenience, not a startup requirement.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	deps.Ownership = appAuth.NewOwnershipService()
	deps.StatsClient = stats.NewClient(cfg.Stats.BaseURL, cfg.Stats.AppName)

	deps.EventService = appServices.NewEventService(
		deps.Repos.Events,
		deps.Repos.Requests,
		deps.Repos.Comments,
		deps.Repos.Categories,
		deps.Repos.Users,
		deps.Ownership,
		deps.StatsClient,
		database,
	)
	deps.RequestService = appServices.NewRequestService(
		deps.Repos.Requests,
		deps.Repos.Events,
		deps.Repos.Users,
		deps.Ownership,
		database,
	)
	deps.CategoryService = appServices.NewCategoryService(deps.Repos.Categories, deps.Repos.Events)
	deps.UserService = appServices.NewUserService(deps.Repos.Users)
	deps.CompilationService = appServices.NewCompilationService(
		deps.Repos.Compilations,
		deps.Repos.Events,
		deps.Repos.Categories,
		deps.Repos.Users,
		deps.Repos.Requests,
		deps.StatsClient,
	)

	deps.EventController = appControllers.NewEventController(deps.EventService)
	deps.RequestController = appControllers.NewRequestController(deps.RequestService)
	deps.CategoryController = appControllers.NewCategoryController(deps.CategoryService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.CompilationController = appControllers.NewCompilationController(deps.CompilationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.EventController,
		deps.RequestController,
		deps.CategoryController,
		deps.UserController,
		deps.CompilationController,
	)

	return router
}
