package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/oauth"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
)

// defaultTokenLifetime is assumed when the token endpoint omits expires_in
const defaultTokenLifetime = time.Hour

// TokenProvider is the OAuth surface of the video-conferencing provider
type TokenProvider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, accessToken string) (*oauth.ZoomUserInfo, error)
}

// StateIssuer issues and consumes organisation-bound CSRF state
type StateIssuer interface {
	GenerateState(ctx context.Context, organisationID uuid.UUID) (string, error)
	ValidateState(ctx context.Context, state string) (uuid.UUID, bool, error)
}

// Locker serialises refreshes of the same credential
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// unauthorizedError is implemented by API errors that carry an HTTP 401
type unauthorizedError interface {
	IsUnauthorized() bool
}

// Service owns the single OAuth credential per (organisation, provider)
type Service struct {
	repo     repositories.CredentialRepository
	provider TokenProvider
	states   StateIssuer
	locker   Locker
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new credential service
func NewService(
	repo repositories.CredentialRepository,
	provider TokenProvider,
	states StateIssuer,
	locker Locker,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		provider: provider,
		states:   states,
		locker:   locker,
		logger:   logger,
		now:      time.Now,
	}
}

// GetActiveCredential returns the organisation's Zoom credential
func (s *Service) GetActiveCredential(ctx context.Context, organisationID uuid.UUID) (*entities.Credential, error) {
	cred, err := s.repo.Get(ctx, organisationID, entities.ProviderZoom)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		return nil, fmt.Errorf("organisation %s: %w", organisationID, usecaseErrors.ErrNotConnected)
	}
	return cred, nil
}

// EnsureFresh refreshes the credential in place when its access token has
// expired. The returned credential always has ExpiresAt after now.
func (s *Service) EnsureFresh(ctx context.Context, cred *entities.Credential) (*entities.Credential, error) {
	if !cred.IsExpired(s.now()) {
		return cred, nil
	}
	return s.refresh(ctx, cred, "")
}

// FreshCredential resolves and, if needed, refreshes the organisation's credential
func (s *Service) FreshCredential(ctx context.Context, organisationID uuid.UUID) (*entities.Credential, error) {
	cred, err := s.GetActiveCredential(ctx, organisationID)
	if err != nil {
		return nil, err
	}
	return s.EnsureFresh(ctx, cred)
}

// Do runs call with a fresh access token. When the provider rejects the
// token with 401 the credential is refreshed and call is retried once.
func (s *Service) Do(ctx context.Context, cred *entities.Credential, call func(ctx context.Context, accessToken string) error) error {
	cred, err := s.EnsureFresh(ctx, cred)
	if err != nil {
		return err
	}

	err = call(ctx, cred.AccessToken)
	var unauthorized unauthorizedError
	if err == nil || !errors.As(err, &unauthorized) || !unauthorized.IsUnauthorized() {
		return err
	}

	s.logger.Info("🔑 Access token rejected, refreshing",
		zap.String("organisation_id", cred.OrganisationID.String()),
	)

	cred, err = s.refresh(ctx, cred, cred.AccessToken)
	if err != nil {
		return err
	}
	return call(ctx, cred.AccessToken)
}

// refresh exchanges the refresh token under a per-credential lock. After
// acquiring the lock the stored row is re-read: if another caller already
// refreshed it (expired case) or replaced the rejected token (staleToken
// case) that result is reused instead of spending the refresh token twice.
func (s *Service) refresh(ctx context.Context, cred *entities.Credential, staleToken string) (*entities.Credential, error) {
	unlock, err := s.locker.Lock(ctx, fmt.Sprintf("credential:%s:%s", cred.OrganisationID, cred.Provider))
	if err != nil {
		return nil, fmt.Errorf("failed to lock credential: %w", err)
	}
	defer unlock()

	stored, err := s.repo.Get(ctx, cred.OrganisationID, cred.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to reload credential: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("organisation %s: %w", cred.OrganisationID, usecaseErrors.ErrNotConnected)
	}

	now := s.now()
	alreadyRefreshed := !stored.IsExpired(now)
	if staleToken != "" {
		alreadyRefreshed = alreadyRefreshed && stored.AccessToken != staleToken
	}
	if alreadyRefreshed {
		*cred = *stored
		return cred, nil
	}

	token, err := s.provider.RefreshToken(ctx, stored.RefreshToken)
	if err != nil {
		s.logger.Error("❌ Token refresh failed",
			zap.String("organisation_id", cred.OrganisationID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrRefreshFailed, err)
	}

	expiresAt := tokenExpiry(token, now)
	if !expiresAt.After(now) {
		return nil, fmt.Errorf("%w: provider returned an already expired token", usecaseErrors.ErrRefreshFailed)
	}

	stored.ApplyToken(token.AccessToken, token.RefreshToken, token.TokenType, scopeOf(token), expiresAt)
	if err := s.repo.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to save refreshed credential: %w", err)
	}

	s.logger.Info("✅ Credential refreshed",
		zap.String("organisation_id", cred.OrganisationID.String()),
		zap.Time("expires_at", expiresAt),
	)

	*cred = *stored
	return cred, nil
}

// AuthURL starts the connect flow for an organisation
func (s *Service) AuthURL(ctx context.Context, organisationID uuid.UUID) (string, error) {
	state, err := s.states.GenerateState(ctx, organisationID)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return s.provider.GetAuthURL(state), nil
}

// CompleteConnect validates the callback state, exchanges the code and
// stores the credential and the connected profile.
func (s *Service) CompleteConnect(ctx context.Context, code, state string) (uuid.UUID, error) {
	organisationID, ok, err := s.states.ValidateState(ctx, state)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, usecaseErrors.ErrInvalidState
	}
	if code == "" {
		return organisationID, fmt.Errorf("%w: missing authorization code", usecaseErrors.ErrInvalidInput)
	}

	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return organisationID, err
	}
	if token.AccessToken == "" {
		return organisationID, entities.ErrEmptyToken
	}

	profile, err := s.provider.GetUserInfo(ctx, token.AccessToken)
	if err != nil {
		return organisationID, err
	}

	cred, err := s.repo.Get(ctx, organisationID, entities.ProviderZoom)
	if err != nil {
		return organisationID, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		cred = &entities.Credential{
			OrganisationID: organisationID,
			Provider:       entities.ProviderZoom,
		}
	}

	now := s.now()
	cred.ApplyToken(token.AccessToken, token.RefreshToken, token.TokenType, scopeOf(token), tokenExpiry(token, now))
	if err := s.repo.Save(ctx, cred); err != nil {
		return organisationID, fmt.Errorf("failed to save credential: %w", err)
	}

	account := &entities.ProviderAccount{
		OrganisationID: organisationID,
		Provider:       entities.ProviderZoom,
		ExternalUserID: profile.ID,
		AccountID:      profile.AccountID,
		Email:          profile.Email,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
	}
	if err := s.repo.SaveAccount(ctx, account); err != nil {
		return organisationID, fmt.Errorf("failed to save provider account: %w", err)
	}

	s.logger.Info("🔗 Zoom account connected",
		zap.String("organisation_id", organisationID.String()),
		zap.String("zoom_user_id", profile.ID),
	)

	return organisationID, nil
}

// ConnectionStatus describes an organisation's Zoom connection
type ConnectionStatus struct {
	Connected bool
	ExpiresAt *time.Time
	Account   *entities.ProviderAccount
}

// Status reports whether the organisation has connected Zoom
func (s *Service) Status(ctx context.Context, organisationID uuid.UUID) (*ConnectionStatus, error) {
	cred, err := s.repo.Get(ctx, organisationID, entities.ProviderZoom)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		return &ConnectionStatus{}, nil
	}

	account, err := s.repo.GetAccount(ctx, organisationID, entities.ProviderZoom)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider account: %w", err)
	}

	expiresAt := cred.ExpiresAt
	return &ConnectionStatus{
		Connected: true,
		ExpiresAt: &expiresAt,
		Account:   account,
	}, nil
}

func tokenExpiry(token *oauth2.Token, now time.Time) time.Time {
	if token.Expiry.IsZero() {
		return now.Add(defaultTokenLifetime)
	}
	return token.Expiry
}

func scopeOf(token *oauth2.Token) string {
	scope, _ := token.Extra("scope").(string)
	return scope
}
