package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/repository"
	"github.com/openfedcloud/fedmgr/pkg/database"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

// RegionService owns provider regions and the standalone location
// catalog they point at.
type RegionService interface {
	Create(ctx context.Context, providerID uuid.UUID, region *models.Region, actor uuid.UUID) (*models.Region, error)
	Get(ctx context.Context, providerID, regionID uuid.UUID) (*models.Region, error)
	List(ctx context.Context, providerID uuid.UUID, params repository.ListParams) ([]models.Region, int64, error)
	Update(ctx context.Context, providerID, regionID uuid.UUID, desired *models.Region, actor uuid.UUID) (*models.Region, error)
	Delete(ctx context.Context, providerID, regionID, actor uuid.UUID) error

	CreateLocation(ctx context.Context, loc *models.Location, actor uuid.UUID) (*models.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error)
	ListLocations(ctx context.Context, params repository.ListParams) ([]models.Location, int64, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, desired *models.Location, actor uuid.UUID) (*models.Location, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error
}

type regionService struct {
	regions   repository.RegionRepository
	providers repository.ProviderRepository
	locations repository.LocationRepository
	tx        database.Transactor
	notifier  EvaluationNotifier
	now       func() time.Time
}

func NewRegionService(
	regions repository.RegionRepository,
	providers repository.ProviderRepository,
	locations repository.LocationRepository,
	tx database.Transactor,
	notifier EvaluationNotifier,
) RegionService {
	return &regionService{
		regions:   regions,
		providers: providers,
		locations: locations,
		tx:        tx,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *regionService) scoped(ctx context.Context, providerID, regionID uuid.UUID) (*models.Region, error) {
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

// Create adds a region and re-derives the provider status: the first
// region may complete a draft provider's configuration.
func (s *regionService) Create(ctx context.Context, providerID uuid.UUID, region *models.Region, actor uuid.UUID) (*models.Region, error) {
	region.ID = uuid.Nil
	region.ProviderID = providerID
	if region.Name == "" {
		region.Name = "default"
	}
	region.Stamp(actor, s.now().UTC())

	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		var provider models.Provider
		if err := s.providers.GetByID(txCtx, providerID, &provider); err != nil {
			return err
		}
		if region.LocationID != nil {
			var loc models.Location
			if err := s.locations.GetByID(txCtx, *region.LocationID, &loc); err != nil {
				return err
			}
		}
		if err := s.regions.Create(txCtx, region); err != nil {
			return err
		}
		return refreshProviderStatus(txCtx, s.providers, s.notifier, providerID, actor, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return region, nil
}

func (s *regionService) Get(ctx context.Context, providerID, regionID uuid.UUID) (*models.Region, error) {
	return s.scoped(ctx, providerID, regionID)
}

func (s *regionService) List(ctx context.Context, providerID uuid.UUID, params repository.ListParams) ([]models.Region, int64, error) {
	var provider models.Provider
	if err := s.providers.GetByID(ctx, providerID, &provider); err != nil {
		return nil, 0, err
	}
	params.Filters = append(params.Filters, repository.Filter{
		Field: "provider_id", Op: repository.OpEq, Value: providerID,
	})
	return s.regions.List(ctx, params)
}

func (s *regionService) Update(ctx context.Context, providerID, regionID uuid.UUID, desired *models.Region, actor uuid.UUID) (*models.Region, error) {
	r, err := s.scoped(ctx, providerID, regionID)
	if err != nil {
		return nil, err
	}
	if desired.LocationID != nil {
		var loc models.Location
		if err := s.locations.GetByID(ctx, *desired.LocationID, &loc); err != nil {
			return nil, err
		}
	}
	r.Name = desired.Name
	r.LocationID = desired.LocationID
	r.Description = desired.Description
	r.OverbookingCPU = desired.OverbookingCPU
	r.OverbookingRAM = desired.OverbookingRAM
	r.BandwidthIn = desired.BandwidthIn
	r.BandwidthOut = desired.BandwidthOut
	r.DefaultPublicNet = desired.DefaultPublicNet
	r.DefaultPrivateNet = desired.DefaultPrivateNet
	r.PrivateNetProxyHost = desired.PrivateNetProxyHost
	r.PrivateNetProxyUser = desired.PrivateNetProxyUser
	r.Touch(actor, s.now().UTC())
	if err := s.regions.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a region and re-derives the provider status: losing
// the last region sends a ready provider back to draft.
func (s *regionService) Delete(ctx context.Context, providerID, regionID, actor uuid.UUID) error {
	return s.tx.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := s.scoped(txCtx, providerID, regionID); err != nil {
			return err
		}
		if err := s.regions.Delete(txCtx, regionID); err != nil {
			return err
		}
		return refreshProviderStatus(txCtx, s.providers, s.notifier, providerID, actor, s.now().UTC())
	})
}

func (s *regionService) CreateLocation(ctx context.Context, loc *models.Location, actor uuid.UUID) (*models.Location, error) {
	loc.ID = uuid.Nil
	loc.Stamp(actor, s.now().UTC())
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *regionService) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := s.locations.GetByID(ctx, id, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *regionService) ListLocations(ctx context.Context, params repository.ListParams) ([]models.Location, int64, error) {
	return s.locations.List(ctx, params)
}

func (s *regionService) UpdateLocation(ctx context.Context, id uuid.UUID, desired *models.Location, actor uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := s.locations.GetByID(ctx, id, &loc); err != nil {
		return nil, err
	}
	loc.Site = desired.Site
	loc.Country = desired.Country
	loc.Latitude = desired.Latitude
	loc.Longitude = desired.Longitude
	loc.Description = desired.Description
	loc.Touch(actor, s.now().UTC())
	if err := s.locations.Update(ctx, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *regionService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return s.locations.Delete(ctx, id)
}
