package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/repository"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

// IdentityService owns identity providers, their user groups and the
// SLAs negotiated by those groups.
type IdentityService interface {
	CreateIdP(ctx context.Context, idp *models.IdentityProvider, actor uuid.UUID) (*models.IdentityProvider, error)
	GetIdP(ctx context.Context, id uuid.UUID) (*models.IdentityProvider, error)
	ListIdPs(ctx context.Context, params repository.ListParams) ([]models.IdentityProvider, int64, error)
	UpdateIdP(ctx context.Context, id uuid.UUID, desired *models.IdentityProvider, actor uuid.UUID) (*models.IdentityProvider, error)
	DeleteIdP(ctx context.Context, id uuid.UUID) error

	CreateGroup(ctx context.Context, idpID uuid.UUID, group *models.UserGroup, actor uuid.UUID) (*models.UserGroup, error)
	GetGroup(ctx context.Context, idpID, groupID uuid.UUID) (*models.UserGroup, error)
	ListGroups(ctx context.Context, idpID uuid.UUID, params repository.ListParams) ([]models.UserGroup, int64, error)
	UpdateGroup(ctx context.Context, idpID, groupID uuid.UUID, desired *models.UserGroup, actor uuid.UUID) (*models.UserGroup, error)
	DeleteGroup(ctx context.Context, idpID, groupID uuid.UUID) error

	CreateSLA(ctx context.Context, groupID uuid.UUID, sla *models.SLA, actor uuid.UUID) (*models.SLA, error)
	GetSLA(ctx context.Context, id uuid.UUID) (*models.SLA, error)
	ListSLAs(ctx context.Context, params repository.ListParams) ([]models.SLA, int64, error)
	UpdateSLA(ctx context.Context, id uuid.UUID, desired *models.SLA, actor uuid.UUID) (*models.SLA, error)
	DeleteSLA(ctx context.Context, id uuid.UUID) error
}

type identityService struct {
	idps   repository.IdentityProviderRepository
	groups repository.UserGroupRepository
	slas   repository.SLARepository
	now    func() time.Time
}

func NewIdentityService(
	idps repository.IdentityProviderRepository,
	groups repository.UserGroupRepository,
	slas repository.SLARepository,
) IdentityService {
	return &identityService{idps: idps, groups: groups, slas: slas, now: time.Now}
}

func (s *identityService) CreateIdP(ctx context.Context, idp *models.IdentityProvider, actor uuid.UUID) (*models.IdentityProvider, error) {
	idp.ID = uuid.Nil
	idp.Stamp(actor, s.now().UTC())
	if err := s.idps.Create(ctx, idp); err != nil {
		return nil, err
	}
	return idp, nil
}

func (s *identityService) GetIdP(ctx context.Context, id uuid.UUID) (*models.IdentityProvider, error) {
	var idp models.IdentityProvider
	if err := s.idps.GetByID(ctx, id, &idp); err != nil {
		return nil, err
	}
	return &idp, nil
}

func (s *identityService) ListIdPs(ctx context.Context, params repository.ListParams) ([]models.IdentityProvider, int64, error) {
	return s.idps.List(ctx, params)
}

func (s *identityService) UpdateIdP(ctx context.Context, id uuid.UUID, desired *models.IdentityProvider, actor uuid.UUID) (*models.IdentityProvider, error) {
	var idp models.IdentityProvider
	if err := s.idps.GetByID(ctx, id, &idp); err != nil {
		return nil, err
	}
	idp.Endpoint = desired.Endpoint
	idp.Name = desired.Name
	idp.GroupsClaim = desired.GroupsClaim
	idp.Protocol = desired.Protocol
	idp.Audience = desired.Audience
	idp.Description = desired.Description
	idp.Touch(actor, s.now().UTC())
	if err := s.idps.Update(ctx, &idp); err != nil {
		return nil, err
	}
	return &idp, nil
}

func (s *identityService) DeleteIdP(ctx context.Context, id uuid.UUID) error {
	return s.idps.Delete(ctx, id)
}

func (s *identityService) CreateGroup(ctx context.Context, idpID uuid.UUID, group *models.UserGroup, actor uuid.UUID) (*models.UserGroup, error) {
	var idp models.IdentityProvider
	if err := s.idps.GetByID(ctx, idpID, &idp); err != nil {
		return nil, err
	}
	group.ID = uuid.Nil
	group.IdpID = idpID
	group.Stamp(actor, s.now().UTC())
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *identityService) GetGroup(ctx context.Context, idpID, groupID uuid.UUID) (*models.UserGroup, error) {
	var g models.UserGroup
	if err := s.groups.GetByID(ctx, groupID, &g); err != nil {
		return nil, err
	}
	if g.IdpID != idpID {
		return nil, appErr.Newf(appErr.CodeNotFound,
			"user group with id '%s' does not exist", groupID)
	}
	return &g, nil
}

func (s *identityService) ListGroups(ctx context.Context, idpID uuid.UUID, params repository.ListParams) ([]models.UserGroup, int64, error) {
	var idp models.IdentityProvider
	if err := s.idps.GetByID(ctx, idpID, &idp); err != nil {
		return nil, 0, err
	}
	params.Filters = append(params.Filters, repository.Filter{
		Field: "idp_id", Op: repository.OpEq, Value: idpID,
	})
	return s.groups.List(ctx, params)
}

func (s *identityService) UpdateGroup(ctx context.Context, idpID, groupID uuid.UUID, desired *models.UserGroup, actor uuid.UUID) (*models.UserGroup, error) {
	g, err := s.GetGroup(ctx, idpID, groupID)
	if err != nil {
		return nil, err
	}
	g.Name = desired.Name
	g.Description = desired.Description
	g.Touch(actor, s.now().UTC())
	if err := s.groups.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *identityService) DeleteGroup(ctx context.Context, idpID, groupID uuid.UUID) error {
	if _, err := s.GetGroup(ctx, idpID, groupID); err != nil {
		return err
	}
	return s.groups.Delete(ctx, groupID)
}

func (s *identityService) CreateSLA(ctx context.Context, groupID uuid.UUID, sla *models.SLA, actor uuid.UUID) (*models.SLA, error) {
	var g models.UserGroup
	if err := s.groups.GetByID(ctx, groupID, &g); err != nil {
		return nil, err
	}
	if !sla.EndDate.After(sla.StartDate) {
		return nil, appErr.Newf(appErr.CodeUnprocessable,
			"sla end date must follow its start date")
	}
	sla.ID = uuid.Nil
	sla.UserGroupID = groupID
	sla.Stamp(actor, s.now().UTC())
	if err := s.slas.Create(ctx, sla); err != nil {
		return nil, err
	}
	return sla, nil
}

func (s *identityService) GetSLA(ctx context.Context, id uuid.UUID) (*models.SLA, error) {
	var sla models.SLA
	if err := s.slas.GetByID(ctx, id, &sla); err != nil {
		return nil, err
	}
	return &sla, nil
}

func (s *identityService) ListSLAs(ctx context.Context, params repository.ListParams) ([]models.SLA, int64, error) {
	return s.slas.List(ctx, params)
}

func (s *identityService) UpdateSLA(ctx context.Context, id uuid.UUID, desired *models.SLA, actor uuid.UUID) (*models.SLA, error) {
	var sla models.SLA
	if err := s.slas.GetByID(ctx, id, &sla); err != nil {
		return nil, err
	}
	if !desired.EndDate.After(desired.StartDate) {
		return nil, appErr.Newf(appErr.CodeUnprocessable,
			"sla end date must follow its start date")
	}
	sla.Name = desired.Name
	sla.URL = desired.URL
	sla.StartDate = desired.StartDate
	sla.EndDate = desired.EndDate
	sla.Touch(actor, s.now().UTC())
	if err := s.slas.Update(ctx, &sla); err != nil {
		return nil, err
	}
	return &sla, nil
}

func (s *identityService) DeleteSLA(ctx context.Context, id uuid.UUID) error {
	return s.slas.Delete(ctx, id)
}
