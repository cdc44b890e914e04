// Package bootstrap wires configuration, storage, services and routes
// into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/ddct/showcase/internal/app/auth"
	appControllers "github.com/ddct/showcase/internal/app/controllers"
	appMigrations "github.com/ddct/showcase/internal/app/migrations"
	appRepos "github.com/ddct/showcase/internal/app/repositories"
	appRoutes "github.com/ddct/showcase/internal/app/routes"
	appServices "github.com/ddct/showcase/internal/app/services"
	"github.com/ddct/showcase/internal/config"
	"github.com/ddct/showcase/internal/db"
	appMiddleware "github.com/ddct/showcase/internal/middleware"
	pkgAuth "github.com/ddct/showcase/internal/pkg/auth"
	"github.com/ddct/showcase/internal/pkg/filestorage"
	"github.com/ddct/showcase/internal/pkg/helpers"
	"github.com/ddct/showcase/internal/pkg/logger"
	"github.com/ddct/showcase/internal/pkg/media"
	"github.com/ddct/showcase/internal/pkg/websocket"
	"github.com/ddct/showcase/internal/seed"
)

// lobbySlideCount is how many projects the lobby carousel rotates
// through after a refresh.
const lobbySlideCount = 10

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService

	Storage      filestorage.FileStorage
	LocalStorage *filestorage.LocalStorage // nil when running on GCS
	Resolver     *media.Resolver

	Hub       *websocket.Hub
	Lobby     *websocket.Lobby
	WSHandler *websocket.Handler

	AuthService      *appServices.AuthService
	UserService      *appServices.UserService
	ProjectService   *appServices.ProjectService
	FileService      *appServices.FileService
	LikeService      *appServices.LikeService
	CommentService   *appServices.CommentService
	AnalyticsService *appServices.AnalyticsService

	AuthController      *appControllers.AuthController
	UserController      *appControllers.UserController
	ProjectController   *appControllers.ProjectController
	FileController      *appControllers.FileController
	CommentController   *appControllers.CommentController
	AnalyticsController *appControllers.AnalyticsController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := strings.ToLower(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", logLevel).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
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
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Startup continues; the admin account can be provisioned later
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// setupStorage selects the backing store from configuration.
func setupStorage(cfg *config.Config, deps *Dependencies) error {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "gcs":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		gcs, err := filestorage.NewGCSStorage(ctx, cfg.Storage.Bucket, cfg.Storage.CDNDomain, cfg.Storage.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to initialize GCS storage: %w", err)
		}
		deps.Storage = gcs
	default:
		local, err := filestorage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL, cfg.Storage.SignSecret)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		deps.Storage = local
		deps.LocalStorage = local
	}
	return nil
}

// BuildDependencies initializes repositories, storage, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	if err := setupStorage(cfg, deps); err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, err
	}
	deps.Resolver = media.NewResolver(deps.Storage, cfg.SignedURLTTL())

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.UserRepository,
		deps.Repos.ProjectRepository,
		deps.Repos.CollaboratorRepository,
		deps.Repos.CommentRepository,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Live layer: the hub fans events out to page subscribers, the
	// lobby drives the carousel on top of it.
	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()
	deps.Lobby = websocket.NewLobby(deps.Hub, lgr)
	go deps.Lobby.Run(context.Background())

	placeholder := cfg.Media.PlaceholderURL

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Resolver,
		placeholder,
		lgr,
	)
	deps.ProjectService = appServices.NewProjectService(
		deps.Repos,
		deps.AuthzService,
		deps.Storage,
		deps.Resolver,
		deps.Lobby,
		placeholder,
		lgr,
	)
	database := &db.PostgresDB{Pool: dbPool}
	deps.FileService = appServices.NewFileService(
		deps.Repos,
		deps.AuthzService,
		deps.Storage,
		deps.Resolver,
		database,
		placeholder,
		int64(cfg.Storage.MaxUploadMB),
		lgr,
	)
	deps.LikeService = appServices.NewLikeService(deps.Repos, database, deps.Hub, lgr)
	deps.CommentService = appServices.NewCommentService(deps.Repos, deps.AuthzService, lgr)
	deps.AnalyticsService = appServices.NewAnalyticsService(deps.Repos, lgr)

	// Like toggles arriving over the socket go through the same
	// service path as the REST endpoint.
	websocket.NewCommandHandler(deps.LikeService, deps.Hub, lgr).Start()

	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.Repos.ProjectRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.Storage, lgr)
	deps.ProjectController = appControllers.NewProjectController(deps.ProjectService, deps.LikeService, lgr)
	deps.FileController = appControllers.NewFileController(deps.FileService, deps.LocalStorage, lgr)
	deps.CommentController = appControllers.NewCommentController(deps.CommentService, deps.LikeService, lgr)
	deps.AnalyticsController = appControllers.NewAnalyticsController(deps.AnalyticsService, lgr)

	// Seed the lobby carousel so the display has slides before the
	// first scheduled refresh.
	if err := deps.ProjectService.RefreshLobby(context.Background(), lobbySlideCount); err != nil {
		lgr.Warn().Err(err).Msg("Initial lobby refresh failed")
	}

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
	router.Use(appMiddleware.RequestLogger(lgr))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ProjectController,
		deps.FileController,
		deps.CommentController,
		deps.AnalyticsController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)
	appRoutes.SetupSwagger(router)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
