package models

import "github.com/google/uuid"

// IdpOverride customizes an identity provider's defaults for one
// specific provider link. Each field is independently nullable: a nil
// field falls back to the IdP default at read time (see the override
// resolver), it is never copied into this row.
type IdpOverride struct {
	IdpID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"idp_id"`
	ProviderID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"provider_id"`
	GroupsClaim *string   `json:"groups_claim,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Protocol    *string   `json:"protocol,omitempty"`
	Audience    *string   `json:"audience,omitempty"`
	Audit
}

func (IdpOverride) TableName() string { return "idp_overrides" }

// RegionOverride customizes a region's networking defaults for one
// specific project link. Same per-field fallback contract as
// IdpOverride.
type RegionOverride struct {
	RegionID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"region_id"`
	ProjectID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	DefaultPublicNet    *string   `json:"default_public_net,omitempty"`
	DefaultPrivateNet   *string   `json:"default_private_net,omitempty"`
	PrivateNetProxyHost *string   `json:"private_net_proxy_host,omitempty"`
	PrivateNetProxyUser *string   `json:"private_net_proxy_user,omitempty"`
	Audit
}

func (RegionOverride) TableName() string { return "region_overrides" }
