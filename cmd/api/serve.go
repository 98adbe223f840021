package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/adapter/handler"
	"github.com/johnquangdev/meeting-insights/internal/adapter/repository"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/zoom"
	httpmw "github.com/johnquangdev/meeting-insights/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-insights/internal/usecase/credential"
	"github.com/johnquangdev/meeting-insights/internal/usecase/insight"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-insights/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-insights/internal/usecase/speaker"
	"github.com/johnquangdev/meeting-insights/internal/usecase/staging"
	"github.com/johnquangdev/meeting-insights/internal/usecase/transcription"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/meeting-insights/pkg/validator"
)

const (
	refreshLockTTL  = 30 * time.Second
	staleScratchAge = 6 * time.Hour
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and transcription workers",
	Long: `Start the Meeting Insights API server.

Example:
  meeting-insights serve
  meeting-insights serve --migrate`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("migrate", false, "apply pending migrations before serving")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("🔧 Initializing dependencies...")

	// Database
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	if runMigrations, _ := cmd.Flags().GetBool("migrate"); runMigrations {
		n, err := database.Migrate(db, migrate.Up, 0)
		if err != nil {
			return err
		}
		logger.Info("✅ Migrations applied", zap.Int("count", n))
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// OAuth state and refresh locks
	var store cache.Store
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient)
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		logger.Info("✅ Redis connected", zap.String("addr", cfg.GetRedisAddr()))
	} else {
		memory := cache.NewMemoryStore()
		defer memory.Close()
		store = memory
		logger.Warn("⚠️ Redis disabled; OAuth state and refresh locks are process-local")
	}

	// Transcript archive
	var archive *storage.TranscriptArchive
	if cfg.Storage.Enabled {
		archive, err = storage.NewTranscriptArchive(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		healthChecks["storage"] = archive.Ping
		logger.Info("✅ Transcript archive ready", zap.String("bucket", cfg.Storage.BucketName))
	}

	// Repositories
	credentialRepo := repository.NewCredentialRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	jobRepo := repository.NewPipelineJobRepository(db)

	// Zoom
	zoomProvider := oauth.NewZoomProvider(cfg.Zoom, nil)
	stateManager := oauth.NewStateManager(store)
	credentials := credential.NewService(credentialRepo, zoomProvider, stateManager,
		cache.NewLocker(store, refreshLockTTL), logger)

	stager := staging.NewStager(zoom.NewClient(cfg.Zoom, nil), credentials,
		cfg.Zoom.AudioFileType, cfg.Zoom.ScratchDir, logger)
	if _, err := stager.SweepStale(staleScratchAge); err != nil {
		logger.Warn("⚠️ Failed to sweep scratch directory", zap.Error(err))
	}

	// Providers
	orchestrator := transcription.NewOrchestrator(
		credentials,
		stager,
		pkgai.NewAssemblyAIClient(cfg.AssemblyAI, nil),
		pkgai.NewSummaryClient(cfg.AssemblyAI, nil),
		cfg.AssemblyAI,
		cfg.Pipeline,
		logger,
	)
	llm, err := pkgai.NewTextGenerator(cfg.Generation, nil)
	if err != nil {
		return err
	}
	generator := insight.NewGenerator(llm, cfg.Generation.SpeakerWorkers, logger)

	// Services
	meetings := meeting.NewService(meetingRepo, cfg.Zoom.WebhookSecret, logger)

	var (
		pipelineArchiver pipeline.Archiver
		speakerArchiver  speaker.Archiver
	)
	if archive != nil {
		pipelineArchiver = archive
		speakerArchiver = archive
	}

	pipelineService := pipeline.NewService(meetings, transcriptRepo, jobRepo, orchestrator, generator,
		pipelineArchiver, cfg.Pipeline, logger)
	speakerService := speaker.NewService(meetings, transcriptRepo, speakerArchiver, logger)

	if err := pipelineService.StartWorkers(ctx); err != nil {
		return err
	}
	defer func() {
		if err := pipelineService.StopWorkers(); err != nil {
			logger.Warn("⚠️ Failed to stop workers", zap.Error(err))
		}
	}()

	// HTTP
	e := newEcho(cfg.Server.AllowedOrigins, logger)
	jwtManager := jwt.NewManager(cfg.JWT)

	router := handler.NewRouter(cfg,
		handler.NewTranscriptHandler(pipelineService, logger),
		handler.NewSpeakerHandler(speakerService, logger),
		handler.NewIntegrationHandler(credentials, cfg.Server.FrontendURL, logger),
		handler.NewWebhookHandler(meetings, logger),
		httpmw.EchoAuth(jwtManager, logger),
		healthChecks,
	)
	router.Setup(e)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("🛑 Shutting down server...")
	case err := <-serverErr:
		logger.Error("❌ Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("✅ Server stopped gracefully")
	return nil
}

func newEcho(allowedOrigins []string, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgvalidator.New()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("http.request", fields...)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit("2M"))

	return e
}
