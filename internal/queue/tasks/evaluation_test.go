package tasks

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openfedcloud/fedmgr/internal/lifecycle"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/repository"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
	"github.com/openfedcloud/fedmgr/pkg/logger"
)

func TestMain(m *testing.M) {
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockProviderRepository struct {
	mock.Mock
}

func (m *mockProviderRepository) Create(ctx context.Context, obj *models.Provider) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockProviderRepository) GetByID(ctx context.Context, id any, dest *models.Provider) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		src := args.Get(1).(*models.Provider)
		*dest = *src
	}
	return args.Error(0)
}

func (m *mockProviderRepository) Update(ctx context.Context, obj *models.Provider) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockProviderRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProviderRepository) List(ctx context.Context, params repository.ListParams) ([]models.Provider, int64, error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.([]models.Provider), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *mockProviderRepository) SetStatus(ctx context.Context, providerID uuid.UUID, status models.ProviderStatus, actor uuid.UUID, now time.Time) error {
	args := m.Called(ctx, providerID, status, actor, now)
	return args.Error(0)
}

func (m *mockProviderRepository) Facts(ctx context.Context, providerID uuid.UUID) (lifecycle.ProviderFacts, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(lifecycle.ProviderFacts), args.Error(1)
}

func (m *mockProviderRepository) AddAdmin(ctx context.Context, providerID, userID uuid.UUID) error {
	args := m.Called(ctx, providerID, userID)
	return args.Error(0)
}

func (m *mockProviderRepository) RemoveAdmin(ctx context.Context, providerID, userID uuid.UUID) error {
	args := m.Called(ctx, providerID, userID)
	return args.Error(0)
}

func (m *mockProviderRepository) ListAdmins(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, providerID)
	if v := args.Get(0); v != nil {
		return v.([]uuid.UUID), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProviderRepository) AddTester(ctx context.Context, providerID, userID uuid.UUID) error {
	args := m.Called(ctx, providerID, userID)
	return args.Error(0)
}

func (m *mockProviderRepository) RemoveTester(ctx context.Context, providerID, userID uuid.UUID) error {
	args := m.Called(ctx, providerID, userID)
	return args.Error(0)
}

func (m *mockProviderRepository) ListTesters(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, providerID)
	if v := args.Get(0); v != nil {
		return v.([]uuid.UUID), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNewEvaluationTask(t *testing.T) {
	provider := &models.Provider{ID: uuid.New(), Name: "cloud-west", Status: models.StatusEvaluation}

	task, err := NewEvaluationTask(provider)
	require.NoError(t, err)
	require.Equal(t, TypeProviderEvaluation, task.Type())

	var p EvaluationPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	require.Equal(t, provider.ID.String(), p.ProviderID)
	require.Equal(t, "cloud-west", p.ProviderName)
}

func TestEvaluationTaskHandler_HandleEvaluation(t *testing.T) {
	providerID := uuid.New()

	newTask := func(id string) *asynq.Task {
		payload, _ := json.Marshal(EvaluationPayload{ProviderID: id, ProviderName: "cloud-west"})
		return asynq.NewTask(TypeProviderEvaluation, payload)
	}

	t.Run("provider in evaluation", func(t *testing.T) {
		providers := &mockProviderRepository{}
		handler := NewEvaluationTaskHandler(providers)

		provider := &models.Provider{ID: providerID, Name: "cloud-west", Status: models.StatusEvaluation}
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Run(func(args mock.Arguments) {
				dest := args.Get(2).(*models.Provider)
				*dest = *provider
			}).Return(nil, provider).Once()
		providers.On("Facts", mock.Anything, providerID).
			Return(lifecycle.ProviderFacts{HasRootProject: true, RootHasSLA: true, RegionCount: 2, IdpLinkCount: 1, TesterCount: 1}, nil).Once()

		err := handler.HandleEvaluation(context.Background(), newTask(providerID.String()))
		require.NoError(t, err)
		mock.AssertExpectationsForObjects(t, providers)
	})

	t.Run("provider already moved on", func(t *testing.T) {
		providers := &mockProviderRepository{}
		handler := NewEvaluationTaskHandler(providers)

		provider := &models.Provider{ID: providerID, Name: "cloud-west", Status: models.StatusPreProduction}
		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Run(func(args mock.Arguments) {
				dest := args.Get(2).(*models.Provider)
				*dest = *provider
			}).Return(nil, provider).Once()

		err := handler.HandleEvaluation(context.Background(), newTask(providerID.String()))
		require.NoError(t, err)
		providers.AssertNotCalled(t, "Facts", mock.Anything, providerID)
	})

	t.Run("provider deleted before the task ran", func(t *testing.T) {
		providers := &mockProviderRepository{}
		handler := NewEvaluationTaskHandler(providers)

		providers.On("GetByID", mock.Anything, providerID, &models.Provider{}).
			Return(appErr.New(appErr.CodeNotFound, "provider does not exist"), nil).Once()

		err := handler.HandleEvaluation(context.Background(), newTask(providerID.String()))
		require.NoError(t, err)
	})

	t.Run("malformed provider id", func(t *testing.T) {
		providers := &mockProviderRepository{}
		handler := NewEvaluationTaskHandler(providers)

		err := handler.HandleEvaluation(context.Background(), newTask("not-a-uuid"))
		require.Error(t, err)
		providers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})
}
