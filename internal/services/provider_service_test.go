package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openfedcloud/fedmgr/internal/lifecycle"
	"github.com/openfedcloud/fedmgr/internal/models"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
	"github.com/openfedcloud/fedmgr/pkg/metrics"
)

func newProviderServiceForTest() (*providerService, *mockProviderRepo, *mockRepo[models.IdentityProvider], *mockUserRepo, *mockIdpLinkRepo, *fakeNotifier) {
	providers := &mockProviderRepo{}
	idps := &mockRepo[models.IdentityProvider]{}
	users := &mockUserRepo{}
	links := &mockIdpLinkRepo{}
	notifier := &fakeNotifier{}
	svc := NewProviderService(providers, idps, users, links, fakeTx{}, notifier).(*providerService)
	return svc, providers, idps, users, links, notifier
}

func TestProviderService_ChangeStatus(t *testing.T) {
	providerID := uuid.New()
	actor := uuid.New()

	t.Run("legal step is persisted", func(t *testing.T) {
		svc, providers, _, _, _, notifier := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusDraft}).Once()
		providers.On("SetStatus", mock.Anything, providerID, models.StatusReady, actor, mock.Anything).
			Return(nil).Once()

		p, err := svc.ChangeStatus(context.Background(), providerID, models.StatusReady, actor)
		require.NoError(t, err)
		require.Equal(t, models.StatusReady, p.Status)
		require.Empty(t, notifier.notified)
		providers.AssertExpectations(t)
	})

	t.Run("illegal jump is rejected and nothing is written", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusDraft}).Once()

		_, err := svc.ChangeStatus(context.Background(), providerID, models.StatusActive, actor)
		require.Error(t, err)
		require.True(t, appErr.IsCode(err, appErr.CodeInvalidTransition))
		providers.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removed is terminal", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusRemoved}).Once()

		_, err := svc.ChangeStatus(context.Background(), providerID, models.StatusDraft, actor)
		require.True(t, appErr.IsCode(err, appErr.CodeInvalidTransition))
	})

	t.Run("entering evaluation notifies", func(t *testing.T) {
		svc, providers, _, _, _, notifier := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusSubmitted}).Once()
		providers.On("SetStatus", mock.Anything, providerID, models.StatusEvaluation, actor, mock.Anything).
			Return(nil).Once()

		_, err := svc.ChangeStatus(context.Background(), providerID, models.StatusEvaluation, actor)
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{providerID}, notifier.notified)
	})

	t.Run("unknown target status", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusDraft}).Once()

		_, err := svc.ChangeStatus(context.Background(), providerID, models.ProviderStatus("parked"), actor)
		require.True(t, appErr.IsCode(err, appErr.CodeInvalidTransition))
	})
}

func TestProviderService_Create(t *testing.T) {
	actor := uuid.New()
	adminID := uuid.New()

	t.Run("creates in draft with admins", func(t *testing.T) {
		svc, providers, _, users, _, _ := newProviderServiceForTest()
		users.On("GetByID", mock.Anything, adminID, &models.User{}).
			Return(nil, &models.User{ID: adminID}).Once()
		providers.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Provider) bool {
			return p.Status == models.StatusDraft && p.CreatedBy == actor && p.UpdatedBy == actor
		})).Return(nil).Once()
		providers.On("AddAdmin", mock.Anything, mock.Anything, adminID).Return(nil).Once()

		_, err := svc.Create(context.Background(), &models.Provider{Name: "site-1"}, []uuid.UUID{adminID}, actor)
		require.NoError(t, err)
		mock.AssertExpectationsForObjects(t, providers, users)
	})

	t.Run("unknown admin aborts", func(t *testing.T) {
		svc, providers, _, users, _, _ := newProviderServiceForTest()
		users.On("GetByID", mock.Anything, adminID, &models.User{}).
			Return(appErr.Newf(appErr.CodeNotFound, "user does not exist"), nil).Once()

		_, err := svc.Create(context.Background(), &models.Provider{Name: "site-1"}, []uuid.UUID{adminID}, actor)
		require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
		providers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProviderService_ConnectIdP(t *testing.T) {
	providerID := uuid.New()
	idpID := uuid.New()
	actor := uuid.New()

	t.Run("unknown idp is not found", func(t *testing.T) {
		svc, providers, idps, _, links, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusDraft})
		idps.On("GetByID", mock.Anything, idpID, &models.IdentityProvider{}).
			Return(appErr.Newf(appErr.CodeNotFound, "identity provider does not exist"), nil).Once()

		_, err := svc.ConnectIdP(context.Background(), providerID, idpID, nil, actor)
		require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
		links.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("link completes a draft provider's configuration", func(t *testing.T) {
		svc, providers, idps, _, links, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusDraft})
		idps.On("GetByID", mock.Anything, idpID, &models.IdentityProvider{}).
			Return(nil, &models.IdentityProvider{ID: idpID}).Once()
		links.On("Create", mock.Anything, mock.MatchedBy(func(row *models.IdpOverride) bool {
			return row.IdpID == idpID && row.ProviderID == providerID && row.CreatedBy == actor
		})).Return(nil).Once()
		providers.On("Facts", mock.Anything, providerID).Return(lifecycle.ProviderFacts{
			HasRootProject: true, RootHasSLA: true, RegionCount: 1, IdpLinkCount: 1,
		}, nil).Once()
		providers.On("SetStatus", mock.Anything, providerID, models.StatusReady, actor, mock.Anything).
			Return(nil).Once()

		_, err := svc.ConnectIdP(context.Background(), providerID, idpID, nil, actor)
		require.NoError(t, err)
		mock.AssertExpectationsForObjects(t, providers, idps, links)
	})

	t.Run("incomplete configuration keeps draft", func(t *testing.T) {
		svc, providers, idps, _, links, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusDraft})
		idps.On("GetByID", mock.Anything, idpID, &models.IdentityProvider{}).
			Return(nil, &models.IdentityProvider{ID: idpID}).Once()
		links.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		providers.On("Facts", mock.Anything, providerID).
			Return(lifecycle.ProviderFacts{IdpLinkCount: 1}, nil).Once()

		_, err := svc.ConnectIdP(context.Background(), providerID, idpID, nil, actor)
		require.NoError(t, err)
		providers.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProviderService_DisconnectIdP(t *testing.T) {
	providerID := uuid.New()
	idpID := uuid.New()
	actor := uuid.New()

	t.Run("losing the last idp sends ready back to draft", func(t *testing.T) {
		svc, providers, _, _, links, _ := newProviderServiceForTest()
		links.On("Delete", mock.Anything, idpID, providerID).Return(nil).Once()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusReady})
		providers.On("Facts", mock.Anything, providerID).Return(lifecycle.ProviderFacts{
			HasRootProject: true, RootHasSLA: true, RegionCount: 1, IdpLinkCount: 0,
		}, nil).Once()
		providers.On("SetStatus", mock.Anything, providerID, models.StatusDraft, actor, mock.Anything).
			Return(nil).Once()

		err := svc.DisconnectIdP(context.Background(), providerID, idpID, actor)
		require.NoError(t, err)
		mock.AssertExpectationsForObjects(t, providers, links)
	})

	t.Run("absent link fails the delete", func(t *testing.T) {
		svc, _, _, _, links, _ := newProviderServiceForTest()
		links.On("Delete", mock.Anything, idpID, providerID).
			Return(appErr.Newf(appErr.CodeDeleteFailed, "not trusted")).Once()

		err := svc.DisconnectIdP(context.Background(), providerID, idpID, actor)
		require.True(t, appErr.IsCode(err, appErr.CodeDeleteFailed))
	})
}

func TestProviderService_AddTester(t *testing.T) {
	providerID := uuid.New()
	userID := uuid.New()
	actor := uuid.New()

	t.Run("first tester moves submitted into evaluation", func(t *testing.T) {
		svc, providers, _, users, _, notifier := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusSubmitted})
		users.On("GetByID", mock.Anything, userID, &models.User{}).
			Return(nil, &models.User{ID: userID}).Once()
		providers.On("AddTester", mock.Anything, providerID, userID).Return(nil).Once()
		providers.On("Facts", mock.Anything, providerID).
			Return(lifecycle.ProviderFacts{TesterCount: 1}, nil).Once()
		providers.On("SetStatus", mock.Anything, providerID, models.StatusEvaluation, actor, mock.Anything).
			Return(nil).Once()

		err := svc.AddTester(context.Background(), providerID, userID, actor)
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{providerID}, notifier.notified)
	})

	t.Run("tester on an active provider changes nothing", func(t *testing.T) {
		svc, providers, _, users, _, notifier := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusActive})
		users.On("GetByID", mock.Anything, userID, &models.User{}).
			Return(nil, &models.User{ID: userID}).Once()
		providers.On("AddTester", mock.Anything, providerID, userID).Return(nil).Once()
		providers.On("Facts", mock.Anything, providerID).
			Return(lifecycle.ProviderFacts{TesterCount: 3}, nil).Once()

		err := svc.AddTester(context.Background(), providerID, userID, actor)
		require.NoError(t, err)
		require.Empty(t, notifier.notified)
		providers.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProviderService_GetIdPLink(t *testing.T) {
	providerID := uuid.New()
	idpID := uuid.New()

	svc, _, idps, _, links, _ := newProviderServiceForTest()
	audience := "custom"
	links.On("Get", mock.Anything, idpID, providerID, &models.IdpOverride{}).
		Return(nil, &models.IdpOverride{IdpID: idpID, ProviderID: providerID, Audience: &audience}).Once()
	protocol := "oidc"
	idps.On("GetByID", mock.Anything, idpID, &models.IdentityProvider{}).
		Return(nil, &models.IdentityProvider{
			ID: idpID, Name: "example-iam", GroupsClaim: "groups", Protocol: &protocol,
		}).Once()

	cfg, err := svc.GetIdPLink(context.Background(), providerID, idpID, func(id uuid.UUID) string {
		return "http://api.test/api/v1/idps/" + id.String()
	})
	require.NoError(t, err)
	require.Equal(t, "groups", cfg.GroupsClaim)
	require.Equal(t, "oidc", *cfg.Protocol)
	require.Equal(t, "custom", *cfg.Audience)
	require.Equal(t, "http://api.test/api/v1/idps/"+idpID.String(), cfg.Links.Idp)
}

func TestProviderService_SubmitUnsubmit(t *testing.T) {
	providerID := uuid.New()
	actor := uuid.New()

	t.Run("ready provider can be submitted", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusReady}).Once()
		providers.On("SetStatus", mock.Anything, providerID, models.StatusSubmitted, actor, mock.Anything).
			Return(nil).Once()

		p, err := svc.Submit(context.Background(), providerID, actor)
		require.NoError(t, err)
		require.Equal(t, models.StatusSubmitted, p.Status)
	})

	t.Run("draft provider cannot be submitted", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusDraft}).Once()

		_, err := svc.Submit(context.Background(), providerID, actor)
		require.Error(t, err)
		require.Equal(t, appErr.CodeInvalidTransition, appErr.CodeOf(err))
		providers.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("submitted provider can be taken back", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusSubmitted}).Once()
		providers.On("SetStatus", mock.Anything, providerID, models.StatusReady, actor, mock.Anything).
			Return(nil).Once()

		p, err := svc.Unsubmit(context.Background(), providerID, actor)
		require.NoError(t, err)
		require.Equal(t, models.StatusReady, p.Status)
	})

	t.Run("unsubmit requires a pending submission", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusEvaluation}).Once()

		_, err := svc.Unsubmit(context.Background(), providerID, actor)
		require.Error(t, err)
		require.Equal(t, appErr.CodeInvalidTransition, appErr.CodeOf(err))
		providers.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProviderService_StatusAccounting(t *testing.T) {
	providerID := uuid.New()
	actor := uuid.New()

	draft := metrics.ProvidersTotal.WithLabelValues(string(models.StatusDraft))
	ready := metrics.ProvidersTotal.WithLabelValues(string(models.StatusReady))

	t.Run("create fills the draft bucket", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		before := testutil.ToFloat64(draft)
		_, err := svc.Create(context.Background(), &models.Provider{Name: "cloud-west"}, nil, actor)
		require.NoError(t, err)
		require.Equal(t, before+1, testutil.ToFloat64(draft))
	})

	t.Run("status change moves the provider between buckets", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusDraft}).Once()
		providers.On("SetStatus", mock.Anything, providerID, models.StatusReady, actor, mock.Anything).
			Return(nil).Once()

		draftBefore := testutil.ToFloat64(draft)
		readyBefore := testutil.ToFloat64(ready)
		_, err := svc.ChangeStatus(context.Background(), providerID, models.StatusReady, actor)
		require.NoError(t, err)
		require.Equal(t, draftBefore-1, testutil.ToFloat64(draft))
		require.Equal(t, readyBefore+1, testutil.ToFloat64(ready))
	})

	t.Run("delete empties the provider's bucket", func(t *testing.T) {
		svc, providers, _, _, _, _ := newProviderServiceForTest()
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(nil, &models.Provider{ID: providerID, Status: models.StatusReady}).Once()
		providers.On("Delete", mock.Anything, providerID).Return(nil).Once()

		before := testutil.ToFloat64(ready)
		require.NoError(t, svc.Delete(context.Background(), providerID))
		require.Equal(t, before-1, testutil.ToFloat64(ready))
	})
}
