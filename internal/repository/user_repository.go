package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/pkg/database"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetBySubIssuer(ctx context.Context, sub, issuer string, dest *models.User) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db, "user"), db: db}
}

func (r *userRepository) GetBySubIssuer(ctx context.Context, sub, issuer string, dest *models.User) error {
	err := database.FromContext(ctx, r.db).
		Where("sub = ? AND issuer = ?", sub, issuer).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.Newf(appErr.CodeNotFound, "user with sub '%s' and issuer '%s' does not exist", sub, issuer)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by sub/issuer failed")
	}
	return nil
}
