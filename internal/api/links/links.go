// Package links builds canonical resource URLs for response shaping.
// Every entity kind registers its list-endpoint path template once;
// link construction is a prefix substitution on the request's own URL
// up to the API marker, never ad hoc concatenation.
package links

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Marker is the path segment every canonical URL hangs off.
const Marker = "/api/v1"

// Kind identifies an entity's list endpoint in the registry.
type Kind string

const (
	KindUsers             Kind = "users"
	KindIdentityProviders Kind = "idps"
	KindUserGroups        Kind = "user-groups"
	KindSLAs              Kind = "slas"
	KindProviders         Kind = "providers"
	KindRegions           Kind = "regions"
	KindProjects          Kind = "projects"
	KindLocations         Kind = "locations"
)

var registry = map[Kind]string{
	KindUsers:             "/users",
	KindIdentityProviders: "/idps",
	KindUserGroups:        "/user-groups",
	KindSLAs:              "/slas",
	KindProviders:         "/providers",
	KindRegions:           "/regions",
	KindProjects:          "/projects",
	KindLocations:         "/locations",
}

// Path returns the registered list-endpoint segment for a kind.
func Path(kind Kind) string {
	return registry[kind]
}

// Base cuts the request URL down to everything up to and including the
// API marker. A URL without the marker is returned trimmed of its path.
func Base(requestURL string) string {
	if i := strings.Index(requestURL, Marker); i >= 0 {
		return requestURL[:i+len(Marker)]
	}
	return strings.TrimRight(requestURL, "/") + Marker
}

// IdentityProvider returns the canonical URL of an IdP's default
// configuration, for the links object of a provider-IdP association.
func IdentityProvider(requestURL string, idpID uuid.UUID) string {
	return fmt.Sprintf("%s%s/%s", Base(requestURL), Path(KindIdentityProviders), idpID)
}

// Region returns the canonical URL of a region's default
// configuration, for the links object of a project-region association.
func Region(requestURL string, providerID, regionID uuid.UUID) string {
	return fmt.Sprintf("%s%s/%s%s/%s",
		Base(requestURL), Path(KindProviders), providerID, Path(KindRegions), regionID)
}

// ProjectRegions returns the URL listing a project's region
// configurations.
func ProjectRegions(requestURL string, providerID, projectID uuid.UUID) string {
	return fmt.Sprintf("%s%s/%s%s/%s%s",
		Base(requestURL), Path(KindProviders), providerID, Path(KindProjects), projectID, Path(KindRegions))
}
