package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openfedcloud/fedmgr/internal/lifecycle"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/pkg/database"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

type ProviderRepository interface {
	BaseRepository[models.Provider]

	// SetStatus persists a status change with a fresh audit stamp.
	SetStatus(ctx context.Context, providerID uuid.UUID, status models.ProviderStatus, actor uuid.UUID, now time.Time) error

	// Facts gathers the dependent-configuration counts the lifecycle
	// rules are based on.
	Facts(ctx context.Context, providerID uuid.UUID) (lifecycle.ProviderFacts, error)

	AddAdmin(ctx context.Context, providerID, userID uuid.UUID) error
	RemoveAdmin(ctx context.Context, providerID, userID uuid.UUID) error
	ListAdmins(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error)
	AddTester(ctx context.Context, providerID, userID uuid.UUID) error
	RemoveTester(ctx context.Context, providerID, userID uuid.UUID) error
	ListTesters(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error)
}

type providerRepository struct {
	BaseRepository[models.Provider]
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{BaseRepository: NewBaseRepository[models.Provider](db, "provider"), db: db}
}

func (r *providerRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

func (r *providerRepository) SetStatus(ctx context.Context, providerID uuid.UUID, status models.ProviderStatus, actor uuid.UUID, now time.Time) error {
	res := r.conn(ctx).Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]any{
			"status":     status,
			"updated_by": actor,
			"updated_at": now,
		})
	if res.Error != nil {
		return translateWriteError(res.Error, "provider")
	}
	if res.RowsAffected == 0 {
		return appErr.Newf(appErr.CodeNotFound, "provider with id '%s' does not exist", providerID)
	}
	return nil
}

func (r *providerRepository) Facts(ctx context.Context, providerID uuid.UUID) (lifecycle.ProviderFacts, error) {
	var facts lifecycle.ProviderFacts
	conn := r.conn(ctx)

	var regions int64
	if err := conn.Model(&models.Region{}).Where("provider_id = ?", providerID).Count(&regions).Error; err != nil {
		return facts, appErr.Wrap(err, appErr.CodeInternal, "count provider regions failed")
	}
	facts.RegionCount = int(regions)

	var idpLinks int64
	if err := conn.Model(&models.IdpOverride{}).Where("provider_id = ?", providerID).Count(&idpLinks).Error; err != nil {
		return facts, appErr.Wrap(err, appErr.CodeInternal, "count provider idp links failed")
	}
	facts.IdpLinkCount = int(idpLinks)

	var testers int64
	if err := conn.Model(&models.Evaluates{}).Where("provider_id = ?", providerID).Count(&testers).Error; err != nil {
		return facts, appErr.Wrap(err, appErr.CodeInternal, "count provider testers failed")
	}
	facts.TesterCount = int(testers)

	var root models.Project
	err := conn.Where("provider_id = ? AND is_root", providerID).First(&root).Error
	switch {
	case err == nil:
		facts.HasRootProject = true
		facts.RootHasSLA = root.SLAID != nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no root project yet
	default:
		return facts, appErr.Wrap(err, appErr.CodeInternal, "get provider root project failed")
	}
	return facts, nil
}

func (r *providerRepository) AddAdmin(ctx context.Context, providerID, userID uuid.UUID) error {
	row := models.Administrates{UserID: userID, ProviderID: providerID}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return translateWriteError(err, "provider administrator")
	}
	return nil
}

func (r *providerRepository) RemoveAdmin(ctx context.Context, providerID, userID uuid.UUID) error {
	res := r.conn(ctx).
		Where("provider_id = ? AND user_id = ?", providerID, userID).
		Delete(&models.Administrates{})
	if res.Error != nil {
		return translateDeleteError(res.Error, "provider administrator")
	}
	if res.RowsAffected == 0 {
		return appErr.Newf(appErr.CodeDeleteFailed,
			"user '%s' does not administrate provider '%s'", userID, providerID)
	}
	return nil
}

func (r *providerRepository) ListAdmins(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).Model(&models.Administrates{}).
		Where("provider_id = ?", providerID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list provider administrators failed")
	}
	return ids, nil
}

func (r *providerRepository) AddTester(ctx context.Context, providerID, userID uuid.UUID) error {
	row := models.Evaluates{UserID: userID, ProviderID: providerID}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return translateWriteError(err, "provider tester")
	}
	return nil
}

func (r *providerRepository) RemoveTester(ctx context.Context, providerID, userID uuid.UUID) error {
	res := r.conn(ctx).
		Where("provider_id = ? AND user_id = ?", providerID, userID).
		Delete(&models.Evaluates{})
	if res.Error != nil {
		return translateDeleteError(res.Error, "provider tester")
	}
	if res.RowsAffected == 0 {
		return appErr.Newf(appErr.CodeDeleteFailed,
			"user '%s' does not evaluate provider '%s'", userID, providerID)
	}
	return nil
}

func (r *providerRepository) ListTesters(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).Model(&models.Evaluates{}).
		Where("provider_id = ?", providerID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list provider testers failed")
	}
	return ids, nil
}
