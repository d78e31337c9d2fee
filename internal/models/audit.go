package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit is the audit quad carried by every managed entity: who created
// and last touched the row, and when. Both user references are plain
// foreign keys; the constraints live in the migration DDL.
type Audit struct {
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null" json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stamp fills the quad at creation time.
func (a *Audit) Stamp(actor uuid.UUID, now time.Time) {
	a.CreatedBy = actor
	a.UpdatedBy = actor
	a.CreatedAt = now
	a.UpdatedAt = now
}

// Touch refreshes the mutable half of the quad.
func (a *Audit) Touch(actor uuid.UUID, now time.Time) {
	a.UpdatedBy = actor
	a.UpdatedAt = now
}
