package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openfedcloud/fedmgr/internal/models"
)

func strPtr(s string) *string { return &s }

func TestResolveIdPConfig(t *testing.T) {
	idpID := uuid.New()
	providerID := uuid.New()
	actor := uuid.New()
	now := time.Now().UTC()

	idp := &models.IdentityProvider{
		ID:          idpID,
		Endpoint:    "https://iam.example.org",
		Name:        "example-iam",
		GroupsClaim: "groups",
		Protocol:    strPtr("oidc"),
	}

	t.Run("override wins per field, parent fills the rest", func(t *testing.T) {
		ov := &models.IdpOverride{
			IdpID:      idpID,
			ProviderID: providerID,
			Audience:   strPtr("custom"),
		}
		ov.Stamp(actor, now)

		cfg := ResolveIdPConfig(idp, ov, "https://api.example.org/api/v1/idps/"+idpID.String())

		assert.Equal(t, "groups", cfg.GroupsClaim)
		assert.Equal(t, "example-iam", cfg.Name)
		if assert.NotNil(t, cfg.Protocol) {
			assert.Equal(t, "oidc", *cfg.Protocol)
		}
		if assert.NotNil(t, cfg.Audience) {
			assert.Equal(t, "custom", *cfg.Audience)
		}
	})

	t.Run("carries the link audit quad, not the parent's", func(t *testing.T) {
		ov := &models.IdpOverride{IdpID: idpID, ProviderID: providerID}
		ov.Stamp(actor, now)

		cfg := ResolveIdPConfig(idp, ov, "")

		assert.Equal(t, actor, cfg.CreatedBy)
		assert.Equal(t, actor, cfg.UpdatedBy)
		assert.Equal(t, now, cfg.CreatedAt)
	})

	t.Run("all overrides set", func(t *testing.T) {
		ov := &models.IdpOverride{
			IdpID:       idpID,
			ProviderID:  providerID,
			GroupsClaim: strPtr("entitlements"),
			Name:        strPtr("renamed"),
			Protocol:    strPtr("saml"),
			Audience:    strPtr("aud"),
		}

		cfg := ResolveIdPConfig(idp, ov, "")

		assert.Equal(t, "entitlements", cfg.GroupsClaim)
		assert.Equal(t, "renamed", cfg.Name)
		assert.Equal(t, "saml", *cfg.Protocol)
		assert.Equal(t, "aud", *cfg.Audience)
	})

	t.Run("link URL is carried through", func(t *testing.T) {
		ov := &models.IdpOverride{IdpID: idpID, ProviderID: providerID}
		url := "https://api.example.org/api/v1/idps/" + idpID.String()

		cfg := ResolveIdPConfig(idp, ov, url)

		assert.Equal(t, url, cfg.Links.Idp)
	})
}

func TestResolveRegionConfig(t *testing.T) {
	regionID := uuid.New()
	projectID := uuid.New()

	region := &models.Region{
		ID:                regionID,
		Name:              "region-1",
		DefaultPublicNet:  strPtr("public-net"),
		DefaultPrivateNet: strPtr("private-net"),
	}

	t.Run("parent defaults apply when override fields are unset", func(t *testing.T) {
		ov := &models.RegionOverride{
			RegionID:            regionID,
			ProjectID:           projectID,
			PrivateNetProxyHost: strPtr("bastion.example.org"),
		}

		cfg := ResolveRegionConfig(region, ov, "")

		assert.Equal(t, "public-net", *cfg.DefaultPublicNet)
		assert.Equal(t, "private-net", *cfg.DefaultPrivateNet)
		assert.Equal(t, "bastion.example.org", *cfg.PrivateNetProxyHost)
		assert.Nil(t, cfg.PrivateNetProxyUser)
	})

	t.Run("nil on both sides stays nil", func(t *testing.T) {
		ov := &models.RegionOverride{RegionID: regionID, ProjectID: projectID}
		bare := &models.Region{ID: regionID, Name: "region-2"}

		cfg := ResolveRegionConfig(bare, ov, "")

		assert.Nil(t, cfg.DefaultPublicNet)
		assert.Nil(t, cfg.DefaultPrivateNet)
		assert.Nil(t, cfg.PrivateNetProxyHost)
		assert.Nil(t, cfg.PrivateNetProxyUser)
	})
}
