package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/repository"
)

// UserService owns the user catalog. Rows are created explicitly from
// token claims on first sight; there is no self-service signup.
type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetBySubIssuer(ctx context.Context, sub, issuer string) (*models.User, error)
	List(ctx context.Context, params repository.ListParams) ([]models.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, desired *models.User) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.Nil
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.users.GetByID(ctx, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) GetBySubIssuer(ctx context.Context, sub, issuer string) (*models.User, error) {
	var u models.User
	if err := s.users.GetBySubIssuer(ctx, sub, issuer, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) List(ctx context.Context, params repository.ListParams) ([]models.User, int64, error) {
	return s.users.List(ctx, params)
}

// Update replaces name and email. Sub and issuer are the identity
// itself and never change.
func (s *userService) Update(ctx context.Context, id uuid.UUID, desired *models.User) (*models.User, error) {
	var u models.User
	if err := s.users.GetByID(ctx, id, &u); err != nil {
		return nil, err
	}
	u.Name = desired.Name
	u.Email = desired.Email
	if err := s.users.Update(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
