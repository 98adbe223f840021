package handler

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
)

const zoomProvider = "Zoom"

// getRequestID tries to read X-Request-ID from the request or response
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// organisationOf returns the organisation set by the auth middleware
func organisationOf(c echo.Context) (uuid.UUID, error) {
	orgID, ok := middleware.GetOrganisationID(c)
	if !ok {
		return uuid.Nil, errors.ErrUnauthenticated()
	}
	return orgID, nil
}

// bindAndValidate binds path, query and body into req and validates it
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	// echo only binds query params for GET/DELETE/HEAD
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// HandleSuccess writes a success payload as-is
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}
	return c.JSON(status, data)
}

// HandleError centralizes error translation and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err, c.Param("meeting_id"), c.Param("job_id"))

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= 500 {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code.String(),
		Details: appErr.Details,
	})
}

// toAppError maps usecase sentinels onto the HTTP error taxonomy
func toAppError(err error, meetingID, jobID string) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if stdErrors.As(err, &validationErrs) {
		return errors.ErrInvalidArgument(describeValidation(validationErrs))
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrInvalidState):
		return errors.ErrInvalidOAuthState()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidWebhook):
		return errors.ErrWebhookSignature()
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return errors.ErrMeetingNotFound(meetingID)
	case stdErrors.Is(err, usecaseErrors.ErrForbidden):
		return errors.ErrPermissionDenied("meeting belongs to another organisation")
	case stdErrors.Is(err, usecaseErrors.ErrNotConnected):
		return errors.ErrNotConnected(zoomProvider, err)
	case stdErrors.Is(err, usecaseErrors.ErrRefreshFailed):
		return errors.ErrRefreshFailed(zoomProvider, err)
	case stdErrors.Is(err, usecaseErrors.ErrNoAudioAsset):
		return errors.ErrNoAudioAsset(meetingID, err)
	case stdErrors.Is(err, usecaseErrors.ErrRecordingsFetchFailed):
		return errors.ErrRecordingsFetchFailed(meetingID, err)
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptionTimeout):
		return errors.ErrTranscriptionTimeout(err)
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptionFailed):
		return errors.ErrTranscriptionFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrInsightGenerationFailed):
		return errors.ErrInsightGenerationFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptNotFound):
		return errors.ErrTranscriptNotFound(meetingID)
	case stdErrors.Is(err, usecaseErrors.ErrJobNotFound):
		return errors.ErrJobNotFound(jobID)
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyRelabeled):
		return errors.ErrSpeakersAlreadyUpdated()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidSpeakerMap):
		return errors.ErrInvalidSpeakerMap(err)
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptChanged):
		return errors.ErrTranscriptChanged(meetingID)
	}

	return errors.ErrInternal(err)
}

func describeValidation(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
