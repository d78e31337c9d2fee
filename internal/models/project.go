package models

import "github.com/google/uuid"

// Project is a tenant/namespace on the provider side. The
// iaas_project_id is unique per provider; at most one project per
// provider may be flagged root (partial unique index, see migrations).
type Project struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_projects_provider_iaas_id,unique" json:"provider_id"`
	SLAID         *uuid.UUID `gorm:"type:uuid;column:sla_id" json:"sla_id,omitempty"`
	Name          string     `gorm:"not null" json:"name" validate:"required"`
	IaasProjectID string     `gorm:"not null;index:idx_projects_provider_iaas_id,unique" json:"iaas_project_id" validate:"required"`
	IsRoot        bool       `gorm:"not null;default:false" json:"is_root"`
	Description   string     `gorm:"type:text" json:"description"`
	Audit
}
