package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// CredentialRepository implements repositories.CredentialRepository using GORM
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Get retrieves the credential for an organisation and provider
func (r *CredentialRepository) Get(ctx context.Context, organisationID uuid.UUID, provider entities.Provider) (*entities.Credential, error) {
	var cred entities.Credential
	err := r.db.WithContext(ctx).
		Where("organisation_id = ? AND provider = ?", organisationID, provider).
		First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// Save updates the credential in place when it already exists, otherwise
// upserts on (organisation_id, provider) and reloads the stored row so the
// caller keeps the persisted identity.
func (r *CredentialRepository) Save(ctx context.Context, credential *entities.Credential) error {
	if credential == nil {
		return errors.New("credential cannot be nil")
	}
	if err := credential.Provider.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if credential.ID != uuid.Nil {
			result := tx.Model(&entities.Credential{}).
				Where("id = ?", credential.ID).
				Updates(map[string]interface{}{
					"access_token":  credential.AccessToken,
					"refresh_token": credential.RefreshToken,
					"token_type":    credential.TokenType,
					"scope":         credential.Scope,
					"expires_at":    credential.ExpiresAt,
					"updated_at":    time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 1 {
				return nil
			}
		}

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organisation_id"}, {Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"access_token", "refresh_token", "token_type", "scope", "expires_at", "updated_at",
			}),
		}).Create(credential).Error
		if err != nil {
			return err
		}

		var stored entities.Credential
		if err := tx.Where("organisation_id = ? AND provider = ?", credential.OrganisationID, credential.Provider).
			First(&stored).Error; err != nil {
			return err
		}
		*credential = stored
		return nil
	})
}

// GetAccount retrieves the connected provider profile
func (r *CredentialRepository) GetAccount(ctx context.Context, organisationID uuid.UUID, provider entities.Provider) (*entities.ProviderAccount, error) {
	var account entities.ProviderAccount
	err := r.db.WithContext(ctx).
		Where("organisation_id = ? AND provider = ?", organisationID, provider).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// SaveAccount upserts the provider profile
func (r *CredentialRepository) SaveAccount(ctx context.Context, account *entities.ProviderAccount) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "organisation_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"external_user_id", "account_id", "email", "first_name", "last_name", "updated_at",
		}),
	}).Create(account).Error
}
