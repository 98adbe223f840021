package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// CredentialRepository stores OAuth credentials and the connected provider profile
type CredentialRepository interface {
	// Get returns the organisation's credential for provider, or nil when none exists
	Get(ctx context.Context, organisationID uuid.UUID, provider entities.Provider) (*entities.Credential, error)

	// Save inserts or overwrites the credential for (organisation, provider)
	Save(ctx context.Context, credential *entities.Credential) error

	// GetAccount returns the connected provider profile, or nil when none exists
	GetAccount(ctx context.Context, organisationID uuid.UUID, provider entities.Provider) (*entities.ProviderAccount, error)

	// SaveAccount inserts or overwrites the provider profile for (organisation, provider)
	SaveAccount(ctx context.Context, account *entities.ProviderAccount) error
}
