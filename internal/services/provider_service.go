package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openfedcloud/fedmgr/internal/lifecycle"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/repository"
	"github.com/openfedcloud/fedmgr/pkg/database"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
	"github.com/openfedcloud/fedmgr/pkg/logger"
	"github.com/openfedcloud/fedmgr/pkg/metrics"
)

// EvaluationNotifier announces that a provider entered the evaluation
// phase. The queue client implements it; tests stub it.
type EvaluationNotifier interface {
	ProviderEnteredEvaluation(ctx context.Context, provider *models.Provider) error
}

// ProviderService owns provider CRUD, the status state machine, the
// administrator and tester rosters, and the trust links to identity
// providers.
type ProviderService interface {
	Create(ctx context.Context, provider *models.Provider, adminIDs []uuid.UUID, actor uuid.UUID) (*models.Provider, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	List(ctx context.Context, params repository.ListParams) ([]models.Provider, int64, error)
	Update(ctx context.Context, id uuid.UUID, desired *models.Provider, actor uuid.UUID) (*models.Provider, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ChangeStatus applies one state-machine step. Illegal jumps fail
	// with an invalid-transition error and leave the row untouched.
	ChangeStatus(ctx context.Context, id uuid.UUID, next models.ProviderStatus, actor uuid.UUID) (*models.Provider, error)

	// Submit hands a ready provider over for federation review;
	// Unsubmit takes a submitted provider back.
	Submit(ctx context.Context, id, actor uuid.UUID) (*models.Provider, error)
	Unsubmit(ctx context.Context, id, actor uuid.UUID) (*models.Provider, error)

	AddAdmin(ctx context.Context, providerID, userID, actor uuid.UUID) error
	RemoveAdmin(ctx context.Context, providerID, userID, actor uuid.UUID) error
	ListAdmins(ctx context.Context, providerID uuid.UUID) ([]models.User, error)
	AddTester(ctx context.Context, providerID, userID, actor uuid.UUID) error
	RemoveTester(ctx context.Context, providerID, userID, actor uuid.UUID) error
	ListTesters(ctx context.Context, providerID uuid.UUID) ([]models.User, error)

	ConnectIdP(ctx context.Context, providerID, idpID uuid.UUID, overrides *models.IdpOverride, actor uuid.UUID) (*models.IdpOverride, error)
	UpdateIdPLink(ctx context.Context, providerID, idpID uuid.UUID, overrides *models.IdpOverride, actor uuid.UUID) (*models.IdpOverride, error)
	DisconnectIdP(ctx context.Context, providerID, idpID, actor uuid.UUID) error
	GetIdPLink(ctx context.Context, providerID, idpID uuid.UUID, idpURL func(uuid.UUID) string) (*EffectiveIdPConfig, error)
	ListIdPLinks(ctx context.Context, providerID uuid.UUID, params repository.ListParams, idpURL func(uuid.UUID) string) ([]EffectiveIdPConfig, int64, error)
}

type providerService struct {
	providers repository.ProviderRepository
	idps      repository.IdentityProviderRepository
	users     repository.UserRepository
	idpLinks  repository.IdpOverrideRepository
	tx        database.Transactor
	notifier  EvaluationNotifier
	now       func() time.Time
}

func NewProviderService(
	providers repository.ProviderRepository,
	idps repository.IdentityProviderRepository,
	users repository.UserRepository,
	idpLinks repository.IdpOverrideRepository,
	tx database.Transactor,
	notifier EvaluationNotifier,
) ProviderService {
	return &providerService{
		providers: providers,
		idps:      idps,
		users:     users,
		idpLinks:  idpLinks,
		tx:        tx,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Create registers a provider in draft together with its initial
// administrator roster, atomically. Every admin must already be a
// known user.
func (s *providerService) Create(ctx context.Context, provider *models.Provider, adminIDs []uuid.UUID, actor uuid.UUID) (*models.Provider, error) {
	provider.ID = uuid.Nil
	provider.Status = models.StatusDraft
	provider.Stamp(actor, s.now().UTC())

	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		for _, adminID := range adminIDs {
			var u models.User
			if err := s.users.GetByID(txCtx, adminID, &u); err != nil {
				return err
			}
		}
		if err := s.providers.Create(txCtx, provider); err != nil {
			return err
		}
		for _, adminID := range adminIDs {
			if err := s.providers.AddAdmin(txCtx, provider.ID, adminID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ProviderRegistered(string(provider.Status))
	return provider, nil
}

func (s *providerService) Get(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var p models.Provider
	if err := s.providers.GetByID(ctx, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *providerService) List(ctx context.Context, params repository.ListParams) ([]models.Provider, int64, error) {
	return s.providers.List(ctx, params)
}

// Update replaces the mutable attributes. Status is not among them:
// status only moves through ChangeStatus.
func (s *providerService) Update(ctx context.Context, id uuid.UUID, desired *models.Provider, actor uuid.UUID) (*models.Provider, error) {
	var p models.Provider
	if err := s.providers.GetByID(ctx, id, &p); err != nil {
		return nil, err
	}

	p.Name = desired.Name
	p.Type = desired.Type
	p.AuthEndpoint = desired.AuthEndpoint
	p.IsPublic = desired.IsPublic
	p.ExpirationDate = desired.ExpirationDate
	p.SupportEmails = desired.SupportEmails
	p.ImageTags = desired.ImageTags
	p.NetworkTags = desired.NetworkTags
	p.RallyUsername = desired.RallyUsername
	if desired.RallyPassword != "" {
		p.RallyPassword = desired.RallyPassword
	}
	p.TestFlavorID = desired.TestFlavorID
	p.TestNetworkID = desired.TestNetworkID
	p.Description = desired.Description
	p.Touch(actor, s.now().UTC())

	if err := s.providers.Update(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *providerService) Delete(ctx context.Context, id uuid.UUID) error {
	var p models.Provider
	if err := s.providers.GetByID(ctx, id, &p); err != nil {
		return err
	}
	if err := s.providers.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ProviderDeregistered(string(p.Status))
	return nil
}

func (s *providerService) ChangeStatus(ctx context.Context, id uuid.UUID, next models.ProviderStatus, actor uuid.UUID) (*models.Provider, error) {
	var p models.Provider
	if err := s.providers.GetByID(ctx, id, &p); err != nil {
		return nil, err
	}
	if err := lifecycle.Check(p.Status, next); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.providers.SetStatus(ctx, id, next, actor, now); err != nil {
		return nil, err
	}
	metrics.ProviderStatusChanged(string(p.Status), string(next))
	p.Status = next
	p.Touch(actor, now)
	s.announce(ctx, &p)
	return &p, nil
}

// Submit moves a ready provider to submitted. Any other starting
// status is rejected.
func (s *providerService) Submit(ctx context.Context, id, actor uuid.UUID) (*models.Provider, error) {
	return s.guardedMove(ctx, id, models.StatusReady, models.StatusSubmitted, actor)
}

// Unsubmit reverts a submitted provider to ready. The reverse edge is
// not part of the general transition table; taking a submission back
// is only legal while the provider still sits in submitted.
func (s *providerService) Unsubmit(ctx context.Context, id, actor uuid.UUID) (*models.Provider, error) {
	return s.guardedMove(ctx, id, models.StatusSubmitted, models.StatusReady, actor)
}

func (s *providerService) guardedMove(ctx context.Context, id uuid.UUID, from, to models.ProviderStatus, actor uuid.UUID) (*models.Provider, error) {
	var p models.Provider
	if err := s.providers.GetByID(ctx, id, &p); err != nil {
		return nil, err
	}
	if p.Status != from {
		return nil, appErr.Newf(appErr.CodeInvalidTransition,
			"provider status cannot change from '%s' to '%s'", p.Status, to)
	}
	now := s.now().UTC()
	if err := s.providers.SetStatus(ctx, id, to, actor, now); err != nil {
		return nil, err
	}
	metrics.ProviderStatusChanged(string(from), string(to))
	p.Status = to
	p.Touch(actor, now)
	return &p, nil
}

// announce emits the evaluation notification. Failure to enqueue is
// logged, not surfaced: the status change already committed.
func (s *providerService) announce(ctx context.Context, p *models.Provider) {
	announceEvaluation(ctx, s.notifier, p)
}

func (s *providerService) refreshStatus(ctx context.Context, providerID, actor uuid.UUID) error {
	return refreshProviderStatus(ctx, s.providers, s.notifier, providerID, actor, s.now().UTC())
}

func announceEvaluation(ctx context.Context, notifier EvaluationNotifier, p *models.Provider) {
	if p.Status != models.StatusEvaluation || notifier == nil {
		return
	}
	if err := notifier.ProviderEnteredEvaluation(ctx, p); err != nil {
		logger.L().Warn("evaluation notification failed",
			zap.String("provider_id", p.ID.String()),
			zap.Error(err))
	}
}

// refreshProviderStatus re-derives the automatic part of the state
// machine after a configuration change. Manual phases are left alone.
func refreshProviderStatus(ctx context.Context, providers repository.ProviderRepository, notifier EvaluationNotifier, providerID, actor uuid.UUID, now time.Time) error {
	var p models.Provider
	if err := providers.GetByID(ctx, providerID, &p); err != nil {
		return err
	}
	facts, err := providers.Facts(ctx, providerID)
	if err != nil {
		return err
	}
	next, due := lifecycle.AutoAdvance(p.Status, facts)
	if !due {
		return nil
	}
	if err := providers.SetStatus(ctx, providerID, next, actor, now); err != nil {
		return err
	}
	metrics.ProviderStatusChanged(string(p.Status), string(next))
	p.Status = next
	announceEvaluation(ctx, notifier, &p)
	return nil
}

func (s *providerService) AddAdmin(ctx context.Context, providerID, userID, actor uuid.UUID) error {
	return s.tx.Transaction(ctx, func(txCtx context.Context) error {
		var p models.Provider
		if err := s.providers.GetByID(txCtx, providerID, &p); err != nil {
			return err
		}
		var u models.User
		if err := s.users.GetByID(txCtx, userID, &u); err != nil {
			return err
		}
		return s.providers.AddAdmin(txCtx, providerID, userID)
	})
}

func (s *providerService) RemoveAdmin(ctx context.Context, providerID, userID, actor uuid.UUID) error {
	return s.providers.RemoveAdmin(ctx, providerID, userID)
}

func (s *providerService) ListAdmins(ctx context.Context, providerID uuid.UUID) ([]models.User, error) {
	var p models.Provider
	if err := s.providers.GetByID(ctx, providerID, &p); err != nil {
		return nil, err
	}
	ids, err := s.providers.ListAdmins(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, ids)
}

// AddTester assigns a tester and, when the provider sits in submitted,
// advances it into evaluation.
func (s *providerService) AddTester(ctx context.Context, providerID, userID, actor uuid.UUID) error {
	return s.tx.Transaction(ctx, func(txCtx context.Context) error {
		var p models.Provider
		if err := s.providers.GetByID(txCtx, providerID, &p); err != nil {
			return err
		}
		var u models.User
		if err := s.users.GetByID(txCtx, userID, &u); err != nil {
			return err
		}
		if err := s.providers.AddTester(txCtx, providerID, userID); err != nil {
			return err
		}
		return s.refreshStatus(txCtx, providerID, actor)
	})
}

func (s *providerService) RemoveTester(ctx context.Context, providerID, userID, actor uuid.UUID) error {
	return s.providers.RemoveTester(ctx, providerID, userID)
}

func (s *providerService) ListTesters(ctx context.Context, providerID uuid.UUID) ([]models.User, error) {
	var p models.Provider
	if err := s.providers.GetByID(ctx, providerID, &p); err != nil {
		return nil, err
	}
	ids, err := s.providers.ListTesters(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, ids)
}

func (s *providerService) resolveUsers(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		var u models.User
		if err := s.users.GetByID(ctx, id, &u); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// ConnectIdP records that the provider trusts an identity provider,
// with optional per-provider overrides. Both sides must exist; a
// second connect for the same pair is a conflict.
func (s *providerService) ConnectIdP(ctx context.Context, providerID, idpID uuid.UUID, overrides *models.IdpOverride, actor uuid.UUID) (*models.IdpOverride, error) {
	row := &models.IdpOverride{IdpID: idpID, ProviderID: providerID}
	if overrides != nil {
		row.GroupsClaim = overrides.GroupsClaim
		row.Name = overrides.Name
		row.Protocol = overrides.Protocol
		row.Audience = overrides.Audience
	}
	row.Stamp(actor, s.now().UTC())

	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		var p models.Provider
		if err := s.providers.GetByID(txCtx, providerID, &p); err != nil {
			return err
		}
		var idp models.IdentityProvider
		if err := s.idps.GetByID(txCtx, idpID, &idp); err != nil {
			return err
		}
		if err := s.idpLinks.Create(txCtx, row); err != nil {
			return err
		}
		return s.refreshStatus(txCtx, providerID, actor)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *providerService) UpdateIdPLink(ctx context.Context, providerID, idpID uuid.UUID, overrides *models.IdpOverride, actor uuid.UUID) (*models.IdpOverride, error) {
	var row models.IdpOverride
	if err := s.idpLinks.Get(ctx, idpID, providerID, &row); err != nil {
		return nil, err
	}
	row.GroupsClaim = overrides.GroupsClaim
	row.Name = overrides.Name
	row.Protocol = overrides.Protocol
	row.Audience = overrides.Audience
	row.Touch(actor, s.now().UTC())
	if err := s.idpLinks.Update(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// DisconnectIdP severs the trust link. A provider that was ready may
// fall back to draft as a result.
func (s *providerService) DisconnectIdP(ctx context.Context, providerID, idpID, actor uuid.UUID) error {
	return s.tx.Transaction(ctx, func(txCtx context.Context) error {
		if err := s.idpLinks.Delete(txCtx, idpID, providerID); err != nil {
			return err
		}
		return s.refreshStatus(txCtx, providerID, actor)
	})
}

func (s *providerService) GetIdPLink(ctx context.Context, providerID, idpID uuid.UUID, idpURL func(uuid.UUID) string) (*EffectiveIdPConfig, error) {
	var row models.IdpOverride
	if err := s.idpLinks.Get(ctx, idpID, providerID, &row); err != nil {
		return nil, err
	}
	var idp models.IdentityProvider
	if err := s.idps.GetByID(ctx, idpID, &idp); err != nil {
		return nil, err
	}
	cfg := ResolveIdPConfig(&idp, &row, idpURL(idpID))
	return &cfg, nil
}

func (s *providerService) ListIdPLinks(ctx context.Context, providerID uuid.UUID, params repository.ListParams, idpURL func(uuid.UUID) string) ([]EffectiveIdPConfig, int64, error) {
	var p models.Provider
	if err := s.providers.GetByID(ctx, providerID, &p); err != nil {
		return nil, 0, err
	}
	params.Filters = append(params.Filters, repository.Filter{
		Field: "provider_id", Op: repository.OpEq, Value: providerID,
	})
	rows, total, err := s.idpLinks.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EffectiveIdPConfig, 0, len(rows))
	for i := range rows {
		var idp models.IdentityProvider
		if err := s.idps.GetByID(ctx, rows[i].IdpID, &idp); err != nil {
			return nil, 0, err
		}
		out = append(out, ResolveIdPConfig(&idp, &rows[i], idpURL(rows[i].IdpID)))
	}
	return out, total, nil
}
