package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProviderType enumerates the supported resource provider kinds.
type ProviderType string

const (
	ProviderTypeOpenStack  ProviderType = "openstack"
	ProviderTypeKubernetes ProviderType = "kubernetes"
)

// ProviderStatus tracks a provider's federation-onboarding phase.
// Transitions between statuses are governed by the lifecycle package.
type ProviderStatus string

const (
	StatusDraft         ProviderStatus = "draft"
	StatusReady         ProviderStatus = "ready"
	StatusSubmitted     ProviderStatus = "submitted"
	StatusEvaluation    ProviderStatus = "evaluation"
	StatusPreProduction ProviderStatus = "pre_production"
	StatusActive        ProviderStatus = "active"
	StatusDeprecated    ProviderStatus = "deprecated"
	StatusRemoved       ProviderStatus = "removed"
	StatusDegraded      ProviderStatus = "degraded"
	StatusMaintenance   ProviderStatus = "maintenance"
	StatusReEvaluation  ProviderStatus = "re_evaluation"
)

// Provider is a federated compute/cloud resource provider being
// onboarded. It exclusively owns its regions and projects
// (restrict-delete) and its IdP links (cascade-delete).
type Provider struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string         `gorm:"uniqueIndex;not null" json:"name" validate:"required"`
	Type           ProviderType   `gorm:"type:varchar(16);not null" json:"type" validate:"required,oneof=openstack kubernetes"`
	AuthEndpoint   string         `gorm:"uniqueIndex;not null" json:"auth_endpoint" validate:"required,url"`
	Status         ProviderStatus `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
	IsPublic       bool           `gorm:"not null;default:false" json:"is_public"`
	ExpirationDate *time.Time     `gorm:"type:date" json:"expiration_date,omitempty"`
	SupportEmails  datatypes.JSON `gorm:"type:jsonb;not null" json:"support_emails" validate:"required"`
	ImageTags      datatypes.JSON `gorm:"type:jsonb" json:"image_tags"`
	NetworkTags    datatypes.JSON `gorm:"type:jsonb" json:"network_tags"`
	RallyUsername  string         `json:"rally_username"`
	RallyPassword  string         `json:"-"`
	TestFlavorID   string         `json:"test_flavor_id"`
	TestNetworkID  string         `json:"test_network_id"`
	Description    string         `gorm:"type:text" json:"description"`
	Audit
}

func (Provider) TableName() string { return "providers" }
