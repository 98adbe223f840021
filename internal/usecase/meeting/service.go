package meeting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/zoom"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
)

// Service is the meeting registry: lookups for the pipeline and lifecycle
// updates from Zoom webhooks
type Service struct {
	repo          repositories.MeetingRepository
	webhookSecret string
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates a new meeting service
func NewService(repo repositories.MeetingRepository, webhookSecret string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:          repo,
		webhookSecret: webhookSecret,
		logger:        logger,
		now:           time.Now,
	}
}

// Resolve returns the meeting with the external id if the organisation owns it
func (s *Service) Resolve(ctx context.Context, organisationID uuid.UUID, externalID string) (*entities.Meeting, error) {
	meeting, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if meeting == nil {
		return nil, fmt.Errorf("meeting %s: %w", externalID, usecaseErrors.ErrMeetingNotFound)
	}
	if !meeting.BelongsTo(organisationID) {
		return nil, fmt.Errorf("meeting %s: %w", externalID, usecaseErrors.ErrForbidden)
	}
	return meeting, nil
}

// HandleWebhook verifies and applies a Zoom webhook delivery. It returns a
// non-nil response only for URL validation challenges.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, timestamp, signature string) (*zoom.URLValidationResponse, error) {
	if !zoom.VerifySignature(s.webhookSecret, timestamp, signature, body, s.now()) {
		return nil, usecaseErrors.ErrInvalidWebhook
	}

	var event zoom.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed webhook body: %v", usecaseErrors.ErrInvalidInput, err)
	}

	s.logger.Info("📨 Zoom webhook received",
		zap.String("event", event.Event),
		zap.String("meeting_id", string(event.Payload.Object.ID)),
	)

	switch event.Event {
	case zoom.EventURLValidation:
		if event.Payload.PlainToken == "" {
			return nil, fmt.Errorf("%w: missing plainToken", usecaseErrors.ErrInvalidInput)
		}
		return &zoom.URLValidationResponse{
			PlainToken:     event.Payload.PlainToken,
			EncryptedToken: zoom.EncryptToken(s.webhookSecret, event.Payload.PlainToken),
		}, nil

	case zoom.EventMeetingEnded:
		endTime := s.now().UTC()
		if event.Payload.Object.EndTime != nil {
			endTime = *event.Payload.Object.EndTime
		}
		found, err := s.repo.MarkEnded(ctx, string(event.Payload.Object.ID), endTime)
		if err != nil {
			return nil, fmt.Errorf("failed to mark meeting ended: %w", err)
		}
		s.logUnknown(found, event)

	case zoom.EventRecordingCompleted:
		found, err := s.repo.MarkRecordingReady(ctx,
			string(event.Payload.Object.ID),
			event.Payload.Object.ShareURL,
			event.Payload.Object.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to mark recording ready: %w", err)
		}
		s.logUnknown(found, event)

	default:
		s.logger.Debug("Ignoring Zoom webhook event", zap.String("event", event.Event))
	}

	return nil, nil
}

func (s *Service) logUnknown(found bool, event zoom.WebhookEvent) {
	if found {
		return
	}
	s.logger.Warn("⚠️ Webhook for unknown meeting",
		zap.String("event", event.Event),
		zap.String("meeting_id", string(event.Payload.Object.ID)),
	)
}
