package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderAccount is the provider-side user profile captured when an
// organisation connects its account.
type ProviderAccount struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	OrganisationID uuid.UUID `json:"organisation_id" gorm:"type:uuid;not null;uniqueIndex:idx_provider_accounts_org_provider"`
	Provider       Provider  `json:"provider" gorm:"type:varchar(32);not null;uniqueIndex:idx_provider_accounts_org_provider"`
	ExternalUserID string    `json:"external_user_id" gorm:"type:varchar(255);not null"`
	AccountID      string    `json:"account_id,omitempty" gorm:"type:varchar(255)"`
	Email          string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	FirstName      string    `json:"first_name,omitempty" gorm:"type:varchar(255)"`
	LastName       string    `json:"last_name,omitempty" gorm:"type:varchar(255)"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ProviderAccount) TableName() string {
	return "provider_accounts"
}

func (a *ProviderAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
