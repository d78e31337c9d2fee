package types

import "time"

type UserCreateRequest struct {
	Sub    string `json:"sub" validate:"required"`
	Issuer string `json:"issuer" validate:"required,url"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

type UserUpdateRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type IdpCreateRequest struct {
	Endpoint    string  `json:"endpoint" validate:"required,url"`
	Name        string  `json:"name" validate:"required"`
	GroupsClaim string  `json:"groups_claim" validate:"required"`
	Protocol    *string `json:"protocol"`
	Audience    *string `json:"audience"`
	Description string  `json:"description"`
}

type UserGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type SLARequest struct {
	Name      string    `json:"name" validate:"required"`
	URL       string    `json:"url" validate:"required,url"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type LocationRequest struct {
	Site        string   `json:"site" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	Description string   `json:"description"`
}

type ProviderCreateRequest struct {
	Name           string     `json:"name" validate:"required"`
	Type           string     `json:"type" validate:"required,oneof=openstack kubernetes"`
	AuthEndpoint   string     `json:"auth_endpoint" validate:"required,url"`
	IsPublic       bool       `json:"is_public"`
	ExpirationDate *time.Time `json:"expiration_date"`
	SupportEmails  []string   `json:"support_emails" validate:"required,min=1,dive,email"`
	ImageTags      []string   `json:"image_tags"`
	NetworkTags    []string   `json:"network_tags"`
	RallyUsername  string     `json:"rally_username"`
	RallyPassword  string     `json:"rally_password"`
	TestFlavorID   string     `json:"test_flavor_id"`
	TestNetworkID  string     `json:"test_network_id"`
	Description    string     `json:"description"`
	SiteAdmins     []string   `json:"site_admins" validate:"omitempty,dive,uuid4"`
}

type ProviderUpdateRequest struct {
	Name           string     `json:"name" validate:"required"`
	Type           string     `json:"type" validate:"required,oneof=openstack kubernetes"`
	AuthEndpoint   string     `json:"auth_endpoint" validate:"required,url"`
	IsPublic       bool       `json:"is_public"`
	ExpirationDate *time.Time `json:"expiration_date"`
	SupportEmails  []string   `json:"support_emails" validate:"required,min=1,dive,email"`
	ImageTags      []string   `json:"image_tags"`
	NetworkTags    []string   `json:"network_tags"`
	RallyUsername  string     `json:"rally_username"`
	RallyPassword  string     `json:"rally_password"`
	TestFlavorID   string     `json:"test_flavor_id"`
	TestNetworkID  string     `json:"test_network_id"`
	Description    string     `json:"description"`
}

type ProviderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type MemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

type RegionRequest struct {
	Name                string   `json:"name"`
	LocationID          *string  `json:"location_id" validate:"omitempty,uuid4"`
	Description         string   `json:"description"`
	OverbookingCPU      float64  `json:"overbooking_cpu" validate:"gte=0"`
	OverbookingRAM      float64  `json:"overbooking_ram" validate:"gte=0"`
	BandwidthIn         float64  `json:"bandwidth_in" validate:"gte=0"`
	BandwidthOut        float64  `json:"bandwidth_out" validate:"gte=0"`
	DefaultPublicNet    *string  `json:"default_public_net"`
	DefaultPrivateNet   *string  `json:"default_private_net"`
	PrivateNetProxyHost *string  `json:"private_net_proxy_host"`
	PrivateNetProxyUser *string  `json:"private_net_proxy_user"`
}

type ProjectRequest struct {
	Name          string `json:"name" validate:"required"`
	IaasProjectID string `json:"iaas_project_id" validate:"required"`
	IsRoot        bool   `json:"is_root"`
	Description   string `json:"description"`
}

type SLALinkRequest struct {
	SLAID string `json:"sla_id" validate:"required,uuid4"`
}

type IdpOverridesRequest struct {
	GroupsClaim *string `json:"groups_claim"`
	Name        *string `json:"name"`
	Protocol    *string `json:"protocol"`
	Audience    *string `json:"audience"`
}

type RegionOverridesRequest struct {
	DefaultPublicNet    *string `json:"default_public_net"`
	DefaultPrivateNet   *string `json:"default_private_net"`
	PrivateNetProxyHost *string `json:"private_net_proxy_host"`
	PrivateNetProxyUser *string `json:"private_net_proxy_user"`
}
