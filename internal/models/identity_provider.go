package models

import "github.com/google/uuid"

// IdentityProvider is an independent top-level entity; many providers
// may trust one IdP. The per-link override fields live in IdpOverride.
type IdentityProvider struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Endpoint    string    `gorm:"uniqueIndex;not null" json:"endpoint" validate:"required,url"`
	Name        string    `gorm:"not null" json:"name" validate:"required"`
	GroupsClaim string    `gorm:"not null" json:"groups_claim" validate:"required"`
	Protocol    *string   `json:"protocol,omitempty"`
	Audience    *string   `json:"audience,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	Audit
}

func (IdentityProvider) TableName() string { return "identity_providers" }
