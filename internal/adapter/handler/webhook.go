package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/zoom"
)

const maxWebhookBody = 1 << 20

// WebhookService ingests provider webhook deliveries
type WebhookService interface {
	HandleWebhook(ctx context.Context, body []byte, timestamp, signature string) (*zoom.URLValidationResponse, error)
}

// Webhook handles provider webhook requests
type Webhook struct {
	meetings WebhookService
	logger   *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(meetings WebhookService, logger *zap.Logger) *Webhook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Webhook{
		meetings: meetings,
		logger:   logger,
	}
}

// Zoom handles POST /webhooks/zoom
// @Summary      Zoom webhook receiver
// @Description  Verifies x-zm-signature, answers endpoint.url_validation and records meeting.ended and recording.completed events
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        x-zm-request-timestamp  header  string  true  "Request timestamp"
// @Param        x-zm-signature          header  string  true  "v0=HMAC-SHA256 signature"
// @Success      200
// @Failure      401  {object}  common.ErrorResponse
// @Router       /webhooks/zoom [post]
func (h *Webhook) Zoom(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	challenge, err := h.meetings.HandleWebhook(
		c.Request().Context(),
		body,
		c.Request().Header.Get("x-zm-request-timestamp"),
		c.Request().Header.Get("x-zm-signature"),
	)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if challenge != nil {
		return c.JSON(http.StatusOK, challenge)
	}
	return c.NoContent(http.StatusOK)
}
