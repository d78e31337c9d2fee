package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openfedcloud/fedmgr/internal/lifecycle"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/repository"
	"github.com/openfedcloud/fedmgr/pkg/database"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
	"github.com/openfedcloud/fedmgr/pkg/metrics"
)

// ProjectService owns the projects of a provider, their SLA link and
// their per-region configuration overrides.
type ProjectService interface {
	Create(ctx context.Context, providerID uuid.UUID, project *models.Project, actor uuid.UUID) (*models.Project, error)
	Get(ctx context.Context, providerID, projectID uuid.UUID) (*models.Project, error)
	List(ctx context.Context, providerID uuid.UUID, params repository.ListParams) ([]models.Project, int64, error)
	Update(ctx context.Context, providerID, projectID uuid.UUID, desired *models.Project, actor uuid.UUID) (*models.Project, error)
	Delete(ctx context.Context, providerID, projectID, actor uuid.UUID) error

	// ConnectSLA links the project to a negotiated SLA. When the link
	// completes a draft provider's configuration, the provider becomes
	// ready in the same transaction.
	ConnectSLA(ctx context.Context, providerID, projectID, slaID, actor uuid.UUID) error
	DisconnectSLA(ctx context.Context, providerID, projectID, actor uuid.UUID) error

	ConnectRegion(ctx context.Context, providerID, projectID, regionID uuid.UUID, overrides *models.RegionOverride, actor uuid.UUID) (*models.RegionOverride, error)
	UpdateRegionLink(ctx context.Context, providerID, projectID, regionID uuid.UUID, overrides *models.RegionOverride, actor uuid.UUID) (*models.RegionOverride, error)
	DisconnectRegion(ctx context.Context, providerID, projectID, regionID, actor uuid.UUID) error
	GetRegionConfig(ctx context.Context, providerID, projectID, regionID uuid.UUID, regionURL func(uuid.UUID) string) (*EffectiveRegionConfig, error)
	ListRegionConfigs(ctx context.Context, providerID, projectID uuid.UUID, params repository.ListParams, regionURL func(uuid.UUID) string) ([]EffectiveRegionConfig, int64, error)
}

type projectService struct {
	projects    repository.ProjectRepository
	providers   repository.ProviderRepository
	regions     repository.RegionRepository
	slas        repository.SLARepository
	regionLinks repository.RegionOverrideRepository
	tx          database.Transactor
	notifier    EvaluationNotifier
	now         func() time.Time
}

func NewProjectService(
	projects repository.ProjectRepository,
	providers repository.ProviderRepository,
	regions repository.RegionRepository,
	slas repository.SLARepository,
	regionLinks repository.RegionOverrideRepository,
	tx database.Transactor,
	notifier EvaluationNotifier,
) ProjectService {
	return &projectService{
		projects:    projects,
		providers:   providers,
		regions:     regions,
		slas:        slas,
		regionLinks: regionLinks,
		tx:          tx,
		notifier:    notifier,
		now:         time.Now,
	}
}

// scoped loads a project and verifies it belongs to the provider named
// in the path. A project reached through the wrong provider does not
// exist as far as the caller is concerned.
func (s *projectService) scoped(ctx context.Context, providerID, projectID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.ProviderID != providerID {
		return nil, appErr.Newf(appErr.CodeNotFound,
			"project with id '%s' does not exist", projectID)
	}
	return &p, nil
}

func (s *projectService) Create(ctx context.Context, providerID uuid.UUID, project *models.Project, actor uuid.UUID) (*models.Project, error) {
	var provider models.Provider
	if err := s.providers.GetByID(ctx, providerID, &provider); err != nil {
		return nil, err
	}
	project.ID = uuid.Nil
	project.ProviderID = providerID
	project.SLAID = nil
	project.Stamp(actor, s.now().UTC())
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, providerID, projectID uuid.UUID) (*models.Project, error) {
	return s.scoped(ctx, providerID, projectID)
}

func (s *projectService) List(ctx context.Context, providerID uuid.UUID, params repository.ListParams) ([]models.Project, int64, error) {
	var provider models.Provider
	if err := s.providers.GetByID(ctx, providerID, &provider); err != nil {
		return nil, 0, err
	}
	params.Filters = append(params.Filters, repository.Filter{
		Field: "provider_id", Op: repository.OpEq, Value: providerID,
	})
	return s.projects.List(ctx, params)
}

// Update replaces the project's mutable fields and re-derives the
// provider status: rooting or un-rooting a project changes the facts
// the readiness rules are based on.
func (s *projectService) Update(ctx context.Context, providerID, projectID uuid.UUID, desired *models.Project, actor uuid.UUID) (*models.Project, error) {
	var p *models.Project
	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.scoped(txCtx, providerID, projectID)
		if err != nil {
			return err
		}
		p.Name = desired.Name
		p.IaasProjectID = desired.IaasProjectID
		p.IsRoot = desired.IsRoot
		p.Description = desired.Description
		p.Touch(actor, s.now().UTC())
		if err := s.projects.Update(txCtx, p); err != nil {
			return err
		}
		return refreshProviderStatus(txCtx, s.providers, s.notifier, providerID, actor, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project and re-derives the provider status: losing
// the root project sends a ready provider back to draft.
func (s *projectService) Delete(ctx context.Context, providerID, projectID, actor uuid.UUID) error {
	return s.tx.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := s.scoped(txCtx, providerID, projectID); err != nil {
			return err
		}
		if err := s.projects.Delete(txCtx, projectID); err != nil {
			return err
		}
		return refreshProviderStatus(txCtx, s.providers, s.notifier, providerID, actor, s.now().UTC())
	})
}

func (s *projectService) ConnectSLA(ctx context.Context, providerID, projectID, slaID, actor uuid.UUID) error {
	now := s.now().UTC()
	advanced := false
	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := s.scoped(txCtx, providerID, projectID); err != nil {
			return err
		}
		var sla models.SLA
		if err := s.slas.GetByID(txCtx, slaID, &sla); err != nil {
			return err
		}
		if err := s.projects.SetSLA(txCtx, projectID, &slaID, actor, now); err != nil {
			return err
		}

		// A draft provider whose configuration is now complete moves
		// to ready inside the same transaction.
		var provider models.Provider
		if err := s.providers.GetByID(txCtx, providerID, &provider); err != nil {
			return err
		}
		if provider.Status != models.StatusDraft {
			return nil
		}
		if err := lifecycle.Check(provider.Status, models.StatusReady); err != nil {
			return err
		}
		if err := s.providers.SetStatus(txCtx, providerID, models.StatusReady, actor, now); err != nil {
			return err
		}
		advanced = true
		return nil
	})
	if err != nil {
		return err
	}
	if advanced {
		metrics.ProviderStatusChanged(string(models.StatusDraft), string(models.StatusReady))
	}
	return nil
}

// DisconnectSLA unlinks the SLA. A provider that was ready only by
// virtue of this link falls back to draft.
func (s *projectService) DisconnectSLA(ctx context.Context, providerID, projectID, actor uuid.UUID) error {
	now := s.now().UTC()
	return s.tx.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := s.scoped(txCtx, providerID, projectID); err != nil {
			return err
		}
		if err := s.projects.SetSLA(txCtx, projectID, nil, actor, now); err != nil {
			return err
		}
		return refreshProviderStatus(txCtx, s.providers, s.notifier, providerID, actor, now)
	})
}

// scopedRegion verifies the region exists and belongs to the same
// provider as the project it is being linked with.
func (s *projectService) scopedRegion(ctx context.Context, providerID, regionID uuid.UUID) (*models.Region, error) {
	var r models.Region
	if err := s.regions.GetByID(ctx, regionID, &r); err != nil {
		return nil, err
	}
	if r.ProviderID != providerID {
		return nil, appErr.Newf(appErr.CodeNotFound,
			"region with id '%s' does not exist", regionID)
	}
	return &r, nil
}

func (s *projectService) ConnectRegion(ctx context.Context, providerID, projectID, regionID uuid.UUID, overrides *models.RegionOverride, actor uuid.UUID) (*models.RegionOverride, error) {
	row := &models.RegionOverride{RegionID: regionID, ProjectID: projectID}
	if overrides != nil {
		row.DefaultPublicNet = overrides.DefaultPublicNet
		row.DefaultPrivateNet = overrides.DefaultPrivateNet
		row.PrivateNetProxyHost = overrides.PrivateNetProxyHost
		row.PrivateNetProxyUser = overrides.PrivateNetProxyUser
	}
	row.Stamp(actor, s.now().UTC())

	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := s.scoped(txCtx, providerID, projectID); err != nil {
			return err
		}
		if _, err := s.scopedRegion(txCtx, providerID, regionID); err != nil {
			return err
		}
		return s.regionLinks.Create(txCtx, row)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *projectService) UpdateRegionLink(ctx context.Context, providerID, projectID, regionID uuid.UUID, overrides *models.RegionOverride, actor uuid.UUID) (*models.RegionOverride, error) {
	if _, err := s.scoped(ctx, providerID, projectID); err != nil {
		return nil, err
	}
	var row models.RegionOverride
	if err := s.regionLinks.Get(ctx, regionID, projectID, &row); err != nil {
		return nil, err
	}
	row.DefaultPublicNet = overrides.DefaultPublicNet
	row.DefaultPrivateNet = overrides.DefaultPrivateNet
	row.PrivateNetProxyHost = overrides.PrivateNetProxyHost
	row.PrivateNetProxyUser = overrides.PrivateNetProxyUser
	row.Touch(actor, s.now().UTC())
	if err := s.regionLinks.Update(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *projectService) DisconnectRegion(ctx context.Context, providerID, projectID, regionID, actor uuid.UUID) error {
	if _, err := s.scoped(ctx, providerID, projectID); err != nil {
		return err
	}
	return s.regionLinks.Delete(ctx, regionID, projectID)
}

func (s *projectService) GetRegionConfig(ctx context.Context, providerID, projectID, regionID uuid.UUID, regionURL func(uuid.UUID) string) (*EffectiveRegionConfig, error) {
	if _, err := s.scoped(ctx, providerID, projectID); err != nil {
		return nil, err
	}
	var row models.RegionOverride
	if err := s.regionLinks.Get(ctx, regionID, projectID, &row); err != nil {
		return nil, err
	}
	region, err := s.scopedRegion(ctx, providerID, regionID)
	if err != nil {
		return nil, err
	}
	cfg := ResolveRegionConfig(region, &row, regionURL(regionID))
	return &cfg, nil
}

func (s *projectService) ListRegionConfigs(ctx context.Context, providerID, projectID uuid.UUID, params repository.ListParams, regionURL func(uuid.UUID) string) ([]EffectiveRegionConfig, int64, error) {
	if _, err := s.scoped(ctx, providerID, projectID); err != nil {
		return nil, 0, err
	}
	params.Filters = append(params.Filters, repository.Filter{
		Field: "project_id", Op: repository.OpEq, Value: projectID,
	})
	rows, total, err := s.regionLinks.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EffectiveRegionConfig, 0, len(rows))
	for i := range rows {
		var region models.Region
		if err := s.regions.GetByID(ctx, rows[i].RegionID, &region); err != nil {
			return nil, 0, err
		}
		out = append(out, ResolveRegionConfig(&region, &rows[i], regionURL(rows[i].RegionID)))
	}
	return out, total, nil
}
