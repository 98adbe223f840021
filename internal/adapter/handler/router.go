package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg                *config.Config
	transcriptHandler  *Transcript
	speakerHandler     *Speaker
	integrationHandler *Integration
	webhookHandler     *Webhook
	authMiddleware     echo.MiddlewareFunc
	healthChecks       map[string]HealthCheck
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	transcriptHandler *Transcript,
	speakerHandler *Speaker,
	integrationHandler *Integration,
	webhookHandler *Webhook,
	authMiddleware echo.MiddlewareFunc,
	healthChecks map[string]HealthCheck,
) *Router {
	return &Router{
		cfg:                cfg,
		transcriptHandler:  transcriptHandler,
		speakerHandler:     speakerHandler,
		integrationHandler: integrationHandler,
		webhookHandler:     webhookHandler,
		authMiddleware:     authMiddleware,
		healthChecks:       healthChecks,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	rt.setupTranscriptRoutes(v1)
	rt.setupSpeakerRoutes(v1)
	rt.setupIntegrationRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	g.POST("/transcribe/:meeting_id", rt.transcriptHandler.Transcribe, rt.authMiddleware)
	g.GET("/transcribe/jobs/:job_id", rt.transcriptHandler.GetJob, rt.authMiddleware)
	g.GET("/transcript/:meeting_id", rt.transcriptHandler.GetTranscript, rt.authMiddleware)
}

func (rt *Router) setupSpeakerRoutes(g *echo.Group) {
	speakers := g.Group("/speakers", rt.authMiddleware)
	speakers.GET("/:meeting_id", rt.speakerHandler.ListSpeakers)
	speakers.POST("/:meeting_id", rt.speakerHandler.Relabel)
}

func (rt *Router) setupIntegrationRoutes(g *echo.Group) {
	zoom := g.Group("/integrations/zoom")
	zoom.GET("/connect", rt.integrationHandler.ZoomConnect, rt.authMiddleware)
	zoom.GET("/status", rt.integrationHandler.ZoomStatus, rt.authMiddleware)
	// Zoom redirects the browser here; the state parameter carries the organisation
	zoom.GET("/callback", rt.integrationHandler.ZoomCallback)
}

func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	g.POST("/webhooks/zoom", rt.webhookHandler.Zoom)
}

// healthCheck godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Failure      503  {object}  common.HealthResponse
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := common.HealthResponse{
		Status:      "ok",
		Environment: rt.cfg.Server.Environment,
		Checks:      make(map[string]string, len(rt.healthChecks)),
	}
	status := http.StatusOK
	for name, check := range rt.healthChecks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	return c.JSON(status, resp)
}
