package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brainbee_backend/internal/config"
	"brainbee_backend/internal/controller"
	"brainbee_backend/internal/service"
	"brainbee_backend/internal/store"
	"brainbee_backend/pkg/database"
	"brainbee_backend/pkg/logger"
	"brainbee_backend/pkg/monitoring"
	"brainbee_backend/pkg/security"
	"brainbee_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Redis           *redis.Client
	DB              *gorm.DB
	services        *services
	configCallbacks []func(*config.Config)
}

type services struct {
	ai        *service.AIService
	generator *service.GeneratorService
	evaluator *service.EvaluatorService
	feedback  *service.FeedbackService
	quiz      *service.QuizService
	store     *store.ResilientStore
}

type controllers struct {
	quiz      *controller.QuizController
	storage   *controller.StorageController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

// initRemoteStore builds the configured remote blob store. A broken remote
// configuration degrades to fallback-only operation instead of refusing to
// start.
func (a *App) initRemoteStore(cfg *config.Config) store.RemoteStore {
	switch cfg.Storage.Type {
	case "minio":
		remote, err := store.NewMinioRemoteStore(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("minio remote store unavailable, running fallback-only", zap.Error(err))
			return nil
		}
		return remote
	case "oss":
		remote, err := store.NewOSSRemoteStore(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("oss remote store unavailable, running fallback-only", zap.Error(err))
			return nil
		}
		return remote
	default:
		logger.Log.Info("remote storage disabled, sessions are process-local")
		return nil
	}
}

// initFallbackStore picks the local fallback: redis when configured and
// reachable, otherwise in-process memory.
func (a *App) initFallbackStore(cfg *config.Config) (store.SessionStore, string) {
	if cfg.Fallback.Type == "redis" {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err == nil {
			a.Redis = rdb
			return store.NewRedisStore(rdb, cfg.Session.Retention()), "redis"
		}
		logger.Log.Warn("redis fallback unavailable, using memory store", zap.Error(err))
	}
	return store.NewMemoryStore(), "memory"
}

func (a *App) initServices(cfg *config.Config) *services {
	s := &services{}

	remote := a.initRemoteStore(cfg)
	fallback, fallbackType := a.initFallbackStore(cfg)
	s.store = store.NewResilientStore(remote, fallback, fallbackType, cfg.Quiz, cfg.Storage.Timeout())

	if cfg.Database.Enabled() {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			logger.Log.Warn("analytics database unavailable, mirror disabled", zap.Error(err))
		} else {
			a.DB = db
		}
	}

	s.ai = service.NewAIService(cfg.AI)
	s.generator = service.NewGeneratorService(s.ai)
	s.evaluator = service.NewEvaluatorService(s.ai)
	s.feedback = service.NewFeedbackService(remote, a.DB, cfg.Storage.Timeout())
	s.quiz = service.NewQuizService(s.store, s.generator, s.evaluator, s.feedback)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		quiz:      controller.NewQuizController(s.quiz, a.Config),
		storage:   controller.NewStorageController(s.store, a.Config),
		analytics: controller.NewAnalyticsController(s.feedback),
		health:    controller.NewHealthController(s.store),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{Config: cfg}

	services := app.initServices(cfg)
	app.services = services
	controllers := app.initControllers(services)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("brainbee-quiz", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		}
	}

	router.LoadHTMLGlob("web/templates/*")

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}

func (a *App) registerSwagger(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
