package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated person acting on the registry. The (sub,
// issuer) pair is what the token layer resolves, and must be unique.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Sub       string    `gorm:"not null;index:idx_users_sub_issuer,unique" json:"sub" validate:"required"`
	Issuer    string    `gorm:"not null;index:idx_users_sub_issuer,unique" json:"issuer" validate:"required,url"`
	Name      string    `gorm:"not null" json:"name" validate:"required"`
	Email     string    `gorm:"not null" json:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Administrates links a user to a provider they administrate.
// Capability-as-row: no user subclassing, just a join table.
type Administrates struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ProviderID uuid.UUID `gorm:"type:uuid;primaryKey" json:"provider_id"`
}

func (Administrates) TableName() string { return "administrates" }

// Evaluates links a user to a provider they test during federation
// onboarding.
type Evaluates struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ProviderID uuid.UUID `gorm:"type:uuid;primaryKey" json:"provider_id"`
}

func (Evaluates) TableName() string { return "evaluates" }
