package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider identifies an external platform an organisation connects over OAuth
type Provider string

const (
	ProviderZoom Provider = "zoom"
)

// Validate rejects providers the service cannot talk to
func (p Provider) Validate() error {
	if p != ProviderZoom {
		return ErrInvalidProvider
	}
	return nil
}

// Credential is the single OAuth credential an organisation holds for a provider.
// Refresh mutates the token fields in place; ID never changes.
type Credential struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	OrganisationID uuid.UUID `json:"organisation_id" gorm:"type:uuid;not null;uniqueIndex:idx_credentials_org_provider"`
	Provider       Provider  `json:"provider" gorm:"type:varchar(32);not null;uniqueIndex:idx_credentials_org_provider"`
	AccessToken    string    `json:"-" gorm:"type:text;not null"`
	RefreshToken   string    `json:"-" gorm:"type:text;not null"`
	TokenType      string    `json:"token_type" gorm:"type:varchar(32);not null;default:'Bearer'"`
	Scope          string    `json:"scope,omitempty" gorm:"type:text"`
	ExpiresAt      time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Credential) TableName() string {
	return "oauth_credentials"
}

// BeforeCreate assigns an ID and the default token type
func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.TokenType == "" {
		c.TokenType = "Bearer"
	}
	return nil
}

// IsExpired reports whether the access token can no longer be used at now
func (c *Credential) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// ApplyToken overwrites the token fields after an exchange or refresh.
// An empty refresh token keeps the previous one.
func (c *Credential) ApplyToken(accessToken, refreshToken, tokenType, scope string, expiresAt time.Time) {
	c.AccessToken = accessToken
	if refreshToken != "" {
		c.RefreshToken = refreshToken
	}
	if tokenType != "" {
		c.TokenType = tokenType
	}
	if scope != "" {
		c.Scope = scope
	}
	c.ExpiresAt = expiresAt
}
