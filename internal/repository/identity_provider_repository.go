package repository

import (
	"gorm.io/gorm"

	"github.com/openfedcloud/fedmgr/internal/models"
)

type IdentityProviderRepository interface {
	BaseRepository[models.IdentityProvider]
}

func NewIdentityProviderRepository(db *gorm.DB) IdentityProviderRepository {
	return NewBaseRepository[models.IdentityProvider](db, "identity provider")
}

type LocationRepository interface {
	BaseRepository[models.Location]
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return NewBaseRepository[models.Location](db, "location")
}

type UserGroupRepository interface {
	BaseRepository[models.UserGroup]
}

func NewUserGroupRepository(db *gorm.DB) UserGroupRepository {
	return NewBaseRepository[models.UserGroup](db, "user group")
}

type SLARepository interface {
	BaseRepository[models.SLA]
}

func NewSLARepository(db *gorm.DB) SLARepository {
	return NewBaseRepository[models.SLA](db, "sla")
}

type RegionRepository interface {
	BaseRepository[models.Region]
}

func NewRegionRepository(db *gorm.DB) RegionRepository {
	return NewBaseRepository[models.Region](db, "region")
}
