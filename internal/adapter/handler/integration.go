package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/integration"
	"github.com/johnquangdev/meeting-insights/internal/usecase/credential"
)

// IntegrationService connects an organisation's Zoom account
type IntegrationService interface {
	AuthURL(ctx context.Context, organisationID uuid.UUID) (string, error)
	CompleteConnect(ctx context.Context, code, state string) (uuid.UUID, error)
	Status(ctx context.Context, organisationID uuid.UUID) (*credential.ConnectionStatus, error)
}

// Integration handles provider OAuth HTTP requests
type Integration struct {
	integrations IntegrationService
	frontendURL  string
	logger       *zap.Logger
}

// NewIntegrationHandler creates a new integration handler. The OAuth callback
// redirects to frontendURL with the outcome in the query string.
func NewIntegrationHandler(integrations IntegrationService, frontendURL string, logger *zap.Logger) *Integration {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Integration{
		integrations: integrations,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		logger:       logger,
	}
}

// ZoomConnect handles GET /integrations/zoom/connect
// @Summary      Start the Zoom OAuth flow
// @Tags         Integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  integration.ConnectResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /integrations/zoom/connect [get]
func (h *Integration) ZoomConnect(c echo.Context) error {
	orgID, err := organisationOf(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	authURL, err := h.integrations.AuthURL(c.Request().Context(), orgID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, integration.ConnectResponse{AuthURL: authURL})
}

// ZoomCallback handles GET /integrations/zoom/callback
// @Summary      Zoom OAuth redirect target
// @Description  Exchanges the authorization code and redirects to the frontend with zoom=connected or zoom=error
// @Tags         Integrations
// @Param        code   query  string  false  "Authorization code"
// @Param        state  query  string  true   "CSRF state"
// @Success      302
// @Router       /integrations/zoom/callback [get]
func (h *Integration) ZoomCallback(c echo.Context) error {
	var req integration.CallbackRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return c.Redirect(http.StatusFound, h.redirectURL("error", "invalid_request"))
	}

	if req.Error != "" {
		h.logger.Warn("⚠️ Zoom authorization denied", zap.String("error", req.Error))
		return c.Redirect(http.StatusFound, h.redirectURL("error", req.Error))
	}

	orgID, err := h.integrations.CompleteConnect(c.Request().Context(), req.Code, req.State)
	if err != nil {
		appErr := toAppError(err, "", "")
		h.logger.Error("❌ Zoom connect failed",
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		)
		return c.Redirect(http.StatusFound, h.redirectURL("error", strings.ToLower(appErr.Code.String())))
	}

	h.logger.Info("🔗 Zoom connected", zap.String("organisation_id", orgID.String()))
	return c.Redirect(http.StatusFound, h.redirectURL("connected", ""))
}

// ZoomStatus handles GET /integrations/zoom/status
// @Summary      Zoom connection status
// @Tags         Integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  integration.StatusResponse
// @Router       /integrations/zoom/status [get]
func (h *Integration) ZoomStatus(c echo.Context) error {
	orgID, err := organisationOf(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	status, err := h.integrations.Status(c.Request().Context(), orgID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := integration.StatusResponse{
		Provider:  "zoom",
		Connected: status.Connected,
		ExpiresAt: status.ExpiresAt,
	}
	if status.Account != nil {
		resp.Account = &integration.AccountResponse{
			Email:     status.Account.Email,
			FirstName: status.Account.FirstName,
			LastName:  status.Account.LastName,
			AccountID: status.Account.AccountID,
		}
	}

	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

func (h *Integration) redirectURL(outcome, reason string) string {
	q := url.Values{}
	q.Set("zoom", outcome)
	if reason != "" {
		q.Set("reason", reason)
	}
	return h.frontendURL + "/integrations?" + q.Encode()
}
