package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openfedcloud/fedmgr/internal/models"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

func newIdentityServiceForTest() (*identityService, *mockRepo[models.IdentityProvider], *mockRepo[models.UserGroup], *mockRepo[models.SLA]) {
	idps := &mockRepo[models.IdentityProvider]{}
	groups := &mockRepo[models.UserGroup]{}
	slas := &mockRepo[models.SLA]{}
	svc := &identityService{
		idps:   idps,
		groups: groups,
		slas:   slas,
		now:    func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return svc, idps, groups, slas
}

func TestIdentityService_CreateSLA(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()
	actor := uuid.New()

	t.Run("valid date range is accepted", func(t *testing.T) {
		svc, _, groups, slas := newIdentityServiceForTest()

		group := &models.UserGroup{ID: groupID, IdpID: uuid.New(), Name: "researchers"}
		groups.On("GetByID", mock.Anything, groupID, mock.Anything).Return(nil, group).Once()
		slas.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		sla := &models.SLA{
			Name:      "gold",
			URL:       "https://slas.example.org/gold",
			StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		created, err := svc.CreateSLA(ctx, groupID, sla, actor)
		require.NoError(t, err)
		require.Equal(t, groupID, created.UserGroupID)
		require.Equal(t, actor, created.CreatedBy)
		mock.AssertExpectationsForObjects(t, groups, slas)
	})

	t.Run("end date before start date is rejected", func(t *testing.T) {
		svc, _, groups, slas := newIdentityServiceForTest()

		group := &models.UserGroup{ID: groupID, IdpID: uuid.New(), Name: "researchers"}
		groups.On("GetByID", mock.Anything, groupID, mock.Anything).Return(nil, group).Once()

		sla := &models.SLA{
			Name:      "gold",
			URL:       "https://slas.example.org/gold",
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		_, err := svc.CreateSLA(ctx, groupID, sla, actor)
		require.Error(t, err)
		require.Equal(t, appErr.CodeUnprocessable, appErr.CodeOf(err))
		slas.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("zero-length range is rejected", func(t *testing.T) {
		svc, _, groups, slas := newIdentityServiceForTest()

		group := &models.UserGroup{ID: groupID, IdpID: uuid.New(), Name: "researchers"}
		groups.On("GetByID", mock.Anything, groupID, mock.Anything).Return(nil, group).Once()

		day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		sla := &models.SLA{Name: "gold", URL: "https://slas.example.org/gold", StartDate: day, EndDate: day}
		_, err := svc.CreateSLA(ctx, groupID, sla, actor)
		require.Error(t, err)
		require.Equal(t, appErr.CodeUnprocessable, appErr.CodeOf(err))
		slas.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown group aborts", func(t *testing.T) {
		svc, _, groups, slas := newIdentityServiceForTest()

		groups.On("GetByID", mock.Anything, groupID, mock.Anything).
			Return(appErr.New(appErr.CodeNotFound, "user group does not exist"), nil).Once()

		sla := &models.SLA{
			Name:      "gold",
			URL:       "https://slas.example.org/gold",
			StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		_, err := svc.CreateSLA(ctx, groupID, sla, actor)
		require.Equal(t, appErr.CodeNotFound, appErr.CodeOf(err))
		slas.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestIdentityService_GetGroup(t *testing.T) {
	ctx := context.Background()
	idpID := uuid.New()
	groupID := uuid.New()

	t.Run("group under its own idp", func(t *testing.T) {
		svc, _, groups, _ := newIdentityServiceForTest()

		group := &models.UserGroup{ID: groupID, IdpID: idpID, Name: "researchers"}
		groups.On("GetByID", mock.Anything, groupID, mock.Anything).Return(nil, group).Once()

		got, err := svc.GetGroup(ctx, idpID, groupID)
		require.NoError(t, err)
		require.Equal(t, "researchers", got.Name)
	})

	t.Run("group reached through the wrong idp does not exist", func(t *testing.T) {
		svc, _, groups, _ := newIdentityServiceForTest()

		group := &models.UserGroup{ID: groupID, IdpID: uuid.New(), Name: "researchers"}
		groups.On("GetByID", mock.Anything, groupID, mock.Anything).Return(nil, group).Once()

		_, err := svc.GetGroup(ctx, idpID, groupID)
		require.Error(t, err)
		require.Equal(t, appErr.CodeNotFound, appErr.CodeOf(err))
	})
}

func TestIdentityService_CreateGroup(t *testing.T) {
	ctx := context.Background()
	idpID := uuid.New()
	actor := uuid.New()

	t.Run("group is bound to the path idp", func(t *testing.T) {
		svc, idps, groups, _ := newIdentityServiceForTest()

		idp := &models.IdentityProvider{ID: idpID, Name: "egi-checkin"}
		idps.On("GetByID", mock.Anything, idpID, mock.Anything).Return(nil, idp).Once()
		groups.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		created, err := svc.CreateGroup(ctx, idpID, &models.UserGroup{IdpID: uuid.New(), Name: "vo-users"}, actor)
		require.NoError(t, err)
		require.Equal(t, idpID, created.IdpID)
		mock.AssertExpectationsForObjects(t, idps, groups)
	})

	t.Run("unknown idp aborts", func(t *testing.T) {
		svc, idps, groups, _ := newIdentityServiceForTest()

		idps.On("GetByID", mock.Anything, idpID, mock.Anything).
			Return(appErr.New(appErr.CodeNotFound, "identity provider does not exist"), nil).Once()

		_, err := svc.CreateGroup(ctx, idpID, &models.UserGroup{Name: "vo-users"}, actor)
		require.Equal(t, appErr.CodeNotFound, appErr.CodeOf(err))
		groups.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
