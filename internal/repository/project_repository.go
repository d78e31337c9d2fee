package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/pkg/database"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

type ProjectRepository interface {
	BaseRepository[models.Project]

	// SetSLA points the project at an SLA, or detaches it when slaID is
	// nil. Detaching a project that has no SLA is a failed delete.
	SetSLA(ctx context.Context, projectID uuid.UUID, slaID *uuid.UUID, actor uuid.UUID, now time.Time) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db, "project"), db: db}
}

func (r *projectRepository) SetSLA(ctx context.Context, projectID uuid.UUID, slaID *uuid.UUID, actor uuid.UUID, now time.Time) error {
	q := database.FromContext(ctx, r.db).Model(&models.Project{}).Where("id = ?", projectID)
	if slaID == nil {
		q = q.Where("sla_id IS NOT NULL")
	}
	res := q.Updates(map[string]any{
		"sla_id":     slaID,
		"updated_by": actor,
		"updated_at": now,
	})
	if res.Error != nil {
		return translateWriteError(res.Error, "project")
	}
	if res.RowsAffected == 0 {
		if slaID == nil {
			return appErr.Newf(appErr.CodeDeleteFailed,
				"project with id '%s' has no SLA to disconnect", projectID)
		}
		return appErr.Newf(appErr.CodeNotFound, "project with id '%s' does not exist", projectID)
	}
	return nil
}
