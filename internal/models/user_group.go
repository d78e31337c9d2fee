package models

import (
	"time"

	"github.com/google/uuid"
)

// UserGroup is a community of users registered on one identity
// provider. Name is unique within its IdP.
type UserGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	IdpID       uuid.UUID `gorm:"type:uuid;not null;index:idx_user_groups_idp_name,unique" json:"idp_id"`
	Name        string    `gorm:"not null;index:idx_user_groups_idp_name,unique" json:"name" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Audit
}

// SLA is a negotiated usage agreement owned by a user group. Projects
// point at it through their sla_id column.
type SLA struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserGroupID uuid.UUID `gorm:"type:uuid;not null" json:"user_group_id"`
	Name        string    `gorm:"not null" json:"name" validate:"required"`
	URL         string    `gorm:"uniqueIndex;not null" json:"url" validate:"required,url"`
	StartDate   time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null" json:"end_date"`
	Audit
}

func (SLA) TableName() string { return "slas" }
