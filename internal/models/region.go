package models

import "github.com/google/uuid"

// Region is a provider-owned partition of resources. Name is unique
// within its provider; single-region providers keep the default
// placeholder name.
type Region struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_regions_provider_name,unique" json:"provider_id"`
	LocationID     *uuid.UUID `gorm:"type:uuid" json:"location_id,omitempty"`
	Name           string     `gorm:"not null;default:'default';index:idx_regions_provider_name,unique" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	OverbookingCPU float64    `gorm:"not null;default:1" json:"overbooking_cpu"`
	OverbookingRAM float64    `gorm:"not null;default:1" json:"overbooking_ram"`
	BandwidthIn    float64    `gorm:"not null;default:10" json:"bandwidth_in"`
	BandwidthOut   float64    `gorm:"not null;default:10" json:"bandwidth_out"`

	// Default networking parameters, overridable per project link.
	DefaultPublicNet    *string `json:"default_public_net,omitempty"`
	DefaultPrivateNet   *string `json:"default_private_net,omitempty"`
	PrivateNetProxyHost *string `json:"private_net_proxy_host,omitempty"`
	PrivateNetProxyUser *string `json:"private_net_proxy_user,omitempty"`
	Audit
}

// Location is a physical site hosting one or more regions.
type Location struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Site        string    `gorm:"uniqueIndex;not null" json:"site" validate:"required"`
	Country     string    `gorm:"not null" json:"country" validate:"required"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	Audit
}
