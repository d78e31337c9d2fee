package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/openfedcloud/fedmgr/internal/models"
)

// The override resolver computes effective configurations: per field,
// the override value when one is set, the parent default otherwise.
// Parent rows are never copied into override rows and never mutated.

// IdPConfigLinks points back at the parent IdP's canonical URL.
type IdPConfigLinks struct {
	Idp string `json:"idp"`
}

// EffectiveIdPConfig is the read model for one provider-IdP link. The
// audit quad is the link's own, not the parent's.
type EffectiveIdPConfig struct {
	IdpID       uuid.UUID      `json:"idp_id"`
	ProviderID  uuid.UUID      `json:"provider_id"`
	GroupsClaim string         `json:"groups_claim"`
	Name        string         `json:"name"`
	Protocol    *string        `json:"protocol,omitempty"`
	Audience    *string        `json:"audience,omitempty"`
	CreatedBy   uuid.UUID      `json:"created_by"`
	UpdatedBy   uuid.UUID      `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Links       IdPConfigLinks `json:"links"`
}

// ResolveIdPConfig merges an IdP's defaults with one provider-scoped
// override row. idpURL is the parent's canonical URL, built by the
// links registry from the request URL.
func ResolveIdPConfig(idp *models.IdentityProvider, ov *models.IdpOverride, idpURL string) EffectiveIdPConfig {
	return EffectiveIdPConfig{
		IdpID:       ov.IdpID,
		ProviderID:  ov.ProviderID,
		GroupsClaim: fallback(ov.GroupsClaim, idp.GroupsClaim),
		Name:        fallback(ov.Name, idp.Name),
		Protocol:    fallbackPtr(ov.Protocol, idp.Protocol),
		Audience:    fallbackPtr(ov.Audience, idp.Audience),
		CreatedBy:   ov.CreatedBy,
		UpdatedBy:   ov.UpdatedBy,
		CreatedAt:   ov.CreatedAt,
		UpdatedAt:   ov.UpdatedAt,
		Links:       IdPConfigLinks{Idp: idpURL},
	}
}

// RegionConfigLinks points back at the parent region's canonical URL.
type RegionConfigLinks struct {
	Region string `json:"region"`
}

// EffectiveRegionConfig is the read model for one project-region link.
type EffectiveRegionConfig struct {
	RegionID            uuid.UUID         `json:"region_id"`
	ProjectID           uuid.UUID         `json:"project_id"`
	DefaultPublicNet    *string           `json:"default_public_net,omitempty"`
	DefaultPrivateNet   *string           `json:"default_private_net,omitempty"`
	PrivateNetProxyHost *string           `json:"private_net_proxy_host,omitempty"`
	PrivateNetProxyUser *string           `json:"private_net_proxy_user,omitempty"`
	CreatedBy           uuid.UUID         `json:"created_by"`
	UpdatedBy           uuid.UUID         `json:"updated_by"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	Links               RegionConfigLinks `json:"links"`
}

// ResolveRegionConfig merges a region's networking defaults with one
// project-scoped override row.
func ResolveRegionConfig(region *models.Region, ov *models.RegionOverride, regionURL string) EffectiveRegionConfig {
	return EffectiveRegionConfig{
		RegionID:            ov.RegionID,
		ProjectID:           ov.ProjectID,
		DefaultPublicNet:    fallbackPtr(ov.DefaultPublicNet, region.DefaultPublicNet),
		DefaultPrivateNet:   fallbackPtr(ov.DefaultPrivateNet, region.DefaultPrivateNet),
		PrivateNetProxyHost: fallbackPtr(ov.PrivateNetProxyHost, region.PrivateNetProxyHost),
		PrivateNetProxyUser: fallbackPtr(ov.PrivateNetProxyUser, region.PrivateNetProxyUser),
		CreatedBy:           ov.CreatedBy,
		UpdatedBy:           ov.UpdatedBy,
		CreatedAt:           ov.CreatedAt,
		UpdatedAt:           ov.UpdatedAt,
		Links:               RegionConfigLinks{Region: regionURL},
	}
}

func fallback(override *string, parent string) string {
	if override != nil {
		return *override
	}
	return parent
}

func fallbackPtr(override, parent *string) *string {
	if override != nil {
		return override
	}
	return parent
}
