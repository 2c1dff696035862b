package bootstrap

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/erpconsole/internal/app/controllers"
	appRepos "github.com/yigit/erpconsole/internal/app/repositories"
	appRoutes "github.com/yigit/erpconsole/internal/app/routes"
	appServices "github.com/yigit/erpconsole/internal/app/services"
	"github.com/yigit/erpconsole/internal/app/views"
	"github.com/yigit/erpconsole/internal/config"
	"github.com/yigit/erpconsole/internal/db"
	appMiddleware "github.com/yigit/erpconsole/internal/middleware"
	pkgAuth "github.com/yigit/erpconsole/internal/pkg/auth"
	"github.com/yigit/erpconsole/internal/pkg/logger"
	"github.com/yigit/erpconsole/internal/pkg/metrics"
	"github.com/yigit/erpconsole/internal/pkg/submitguard"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DomainService     *appServices.DomainService
	StudentService    *appServices.StudentService
	DatabaseService   *appServices.DatabaseService
	AuthService       *appServices.AuthService
	AuthController    *appControllers.AuthController
	DomainController  *appControllers.DomainController
	StudentController *appControllers.StudentController
	HealthController  *appControllers.HealthController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	ConfirmTokens     *pkgAuth.ConfirmTokenService
	Guard             submitguard.Guard
	Metrics           *metrics.Metrics
	Registry          *prometheus.Registry
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  strings.ToLower(cfg.Logging.Format) == "pretty",
		Service: "erpconsole",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	if overrides := cfg.EnvOverrides(); len(overrides) > 0 {
		lgr.Info().Strs("env", overrides).Msg("Configuration overridden from environment")
	}
	return cfg, lgr, nil
}

// SetupSubmitGuard picks the redis guard when redis is configured, otherwise
// an in-memory one. The returned RedisDB is nil in the latter case.
func SetupSubmitGuard(cfg *config.Config, lgr zerolog.Logger) (submitguard.Guard, *db.RedisDB, error) {
	rdb, err := db.NewRedisDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		return nil, nil, err
	}
	if rdb == nil {
		lgr.Info().Msg("Redis not configured, tracking form submissions in memory")
		return submitguard.NewMemoryGuard(), nil, nil
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Tracking form submissions in redis")
	return submitguard.NewRedisGuard(rdb.Client), rdb, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, guard submitguard.Guard, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Guard: guard}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.New(deps.Registry)

	client := appRepos.NewBackendClient(cfg.Backend.BaseURL, cfg.BackendTimeout(), deps.Metrics)
	deps.Repos = appRepos.NewRepositories(client)

	deps.ConfirmTokens = pkgAuth.NewConfirmTokenService(pkgAuth.ConfirmConfig{
		SecretKey: cfg.Confirm.Secret,
		TTL:       cfg.ConfirmTTL(),
		Issuer:    cfg.Confirm.Issuer,
	})

	// Initialize services
	deps.DomainService = appServices.NewDomainService(deps.Repos.DomainRepository, deps.Repos.StudentRepository)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository)
	deps.DatabaseService = appServices.NewDatabaseService(
		deps.Repos.DatabaseRepository,
		deps.Repos.DomainRepository,
		cfg.InitRetryDelay(),
		cfg.InitMinInterval(),
	)
	deps.AuthService = appServices.NewAuthService(deps.Repos.AuthRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	editorOpts := appControllers.EditorOptions{
		DefaultYear:   cfg.Console.FormDefaultYear,
		SubmissionTTL: cfg.SubmissionTTL(),
		Guard:         guard,
		Metrics:       deps.Metrics,
	}
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.DomainController = appControllers.NewDomainController(
		deps.DomainService,
		deps.DatabaseService,
		deps.Repos.DomainRepository,
		deps.ConfirmTokens,
		editorOpts,
	)
	deps.StudentController = appControllers.NewStudentController(
		deps.StudentService,
		deps.DomainService,
		deps.Repos.StudentRepository,
		editorOpts,
	)
	deps.HealthController = appControllers.NewHealthController(deps.DatabaseService)

	lgr.Info().Str("backend", client.BaseURL()).Msg("Dependencies built")
	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestContext(lgr))

	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load views: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupMetrics(router, deps.Registry)
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.DomainController,
		deps.StudentController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "page not found", "status": "error"})
	})

	return router, nil
}
