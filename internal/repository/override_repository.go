package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/pkg/database"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

// IdpOverrideRepository manages the provider-to-IdP association rows.
// The composite (idp_id, provider_id) key rules out a shared base
// implementation keyed on a single id column.
type IdpOverrideRepository interface {
	Create(ctx context.Context, row *models.IdpOverride) error
	Get(ctx context.Context, idpID, providerID uuid.UUID, dest *models.IdpOverride) error
	Update(ctx context.Context, row *models.IdpOverride) error
	Delete(ctx context.Context, idpID, providerID uuid.UUID) error
	List(ctx context.Context, params ListParams) ([]models.IdpOverride, int64, error)
}

type idpOverrideRepository struct {
	db *gorm.DB
}

func NewIdpOverrideRepository(db *gorm.DB) IdpOverrideRepository {
	return &idpOverrideRepository{db: db}
}

func (r *idpOverrideRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

func (r *idpOverrideRepository) Create(ctx context.Context, row *models.IdpOverride) error {
	if err := r.conn(ctx).Create(row).Error; err != nil {
		return translateWriteError(err, "identity provider link")
	}
	return nil
}

func (r *idpOverrideRepository) Get(ctx context.Context, idpID, providerID uuid.UUID, dest *models.IdpOverride) error {
	err := r.conn(ctx).
		Where("idp_id = ? AND provider_id = ?", idpID, providerID).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.Newf(appErr.CodeNotFound,
				"identity provider '%s' is not trusted by provider '%s'", idpID, providerID)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get identity provider link failed")
	}
	return nil
}

func (r *idpOverrideRepository) Update(ctx context.Context, row *models.IdpOverride) error {
	res := r.conn(ctx).Model(&models.IdpOverride{}).
		Where("idp_id = ? AND provider_id = ?", row.IdpID, row.ProviderID).
		Updates(map[string]any{
			"groups_claim": row.GroupsClaim,
			"name":         row.Name,
			"protocol":     row.Protocol,
			"audience":     row.Audience,
			"updated_by":   row.UpdatedBy,
			"updated_at":   row.UpdatedAt,
		})
	if res.Error != nil {
		return translateWriteError(res.Error, "identity provider link")
	}
	if res.RowsAffected == 0 {
		return appErr.Newf(appErr.CodeNotFound,
			"identity provider '%s' is not trusted by provider '%s'", row.IdpID, row.ProviderID)
	}
	return nil
}

func (r *idpOverrideRepository) Delete(ctx context.Context, idpID, providerID uuid.UUID) error {
	res := r.conn(ctx).
		Where("idp_id = ? AND provider_id = ?", idpID, providerID).
		Delete(&models.IdpOverride{})
	if res.Error != nil {
		return translateDeleteError(res.Error, "identity provider link")
	}
	if res.RowsAffected == 0 {
		return appErr.Newf(appErr.CodeDeleteFailed,
			"identity provider '%s' is not trusted by provider '%s'", idpID, providerID)
	}
	return nil
}

func (r *idpOverrideRepository) List(ctx context.Context, params ListParams) ([]models.IdpOverride, int64, error) {
	q := r.conn(ctx).Model(&models.IdpOverride{})
	q = ApplyFilters(q, params.Filters)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, "count identity provider links failed")
	}

	var out []models.IdpOverride
	q = q.Order(params.OrderClause()).Offset(params.Skip)
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, "list identity provider links failed")
	}
	return out, total, nil
}

// RegionOverrideRepository manages the project-to-region association
// rows, symmetric to IdpOverrideRepository.
type RegionOverrideRepository interface {
	Create(ctx context.Context, row *models.RegionOverride) error
	Get(ctx context.Context, regionID, projectID uuid.UUID, dest *models.RegionOverride) error
	Update(ctx context.Context, row *models.RegionOverride) error
	Delete(ctx context.Context, regionID, projectID uuid.UUID) error
	List(ctx context.Context, params ListParams) ([]models.RegionOverride, int64, error)
}

type regionOverrideRepository struct {
	db *gorm.DB
}

func NewRegionOverrideRepository(db *gorm.DB) RegionOverrideRepository {
	return &regionOverrideRepository{db: db}
}

func (r *regionOverrideRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

func (r *regionOverrideRepository) Create(ctx context.Context, row *models.RegionOverride) error {
	if err := r.conn(ctx).Create(row).Error; err != nil {
		return translateWriteError(err, "region link")
	}
	return nil
}

func (r *regionOverrideRepository) Get(ctx context.Context, regionID, projectID uuid.UUID, dest *models.RegionOverride) error {
	err := r.conn(ctx).
		Where("region_id = ? AND project_id = ?", regionID, projectID).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.Newf(appErr.CodeNotFound,
				"project '%s' has no configuration for region '%s'", projectID, regionID)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get region link failed")
	}
	return nil
}

func (r *regionOverrideRepository) Update(ctx context.Context, row *models.RegionOverride) error {
	res := r.conn(ctx).Model(&models.RegionOverride{}).
		Where("region_id = ? AND project_id = ?", row.RegionID, row.ProjectID).
		Updates(map[string]any{
			"default_public_net":     row.DefaultPublicNet,
			"default_private_net":    row.DefaultPrivateNet,
			"private_net_proxy_host": row.PrivateNetProxyHost,
			"private_net_proxy_user": row.PrivateNetProxyUser,
			"updated_by":             row.UpdatedBy,
			"updated_at":             row.UpdatedAt,
		})
	if res.Error != nil {
		return translateWriteError(res.Error, "region link")
	}
	if res.RowsAffected == 0 {
		return appErr.Newf(appErr.CodeNotFound,
			"project '%s' has no configuration for region '%s'", row.ProjectID, row.RegionID)
	}
	return nil
}

func (r *regionOverrideRepository) Delete(ctx context.Context, regionID, projectID uuid.UUID) error {
	res := r.conn(ctx).
		Where("region_id = ? AND project_id = ?", regionID, projectID).
		Delete(&models.RegionOverride{})
	if res.Error != nil {
		return translateDeleteError(res.Error, "region link")
	}
	if res.RowsAffected == 0 {
		return appErr.Newf(appErr.CodeDeleteFailed,
			"project '%s' has no configuration for region '%s'", projectID, regionID)
	}
	return nil
}

func (r *regionOverrideRepository) List(ctx context.Context, params ListParams) ([]models.RegionOverride, int64, error) {
	q := r.conn(ctx).Model(&models.RegionOverride{})
	q = ApplyFilters(q, params.Filters)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, "count region links failed")
	}

	var out []models.RegionOverride
	q = q.Order(params.OrderClause()).Offset(params.Skip)
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, "list region links failed")
	}
	return out, total, nil
}
