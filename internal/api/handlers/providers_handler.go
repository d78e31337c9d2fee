package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/openfedcloud/fedmgr/internal/api/links"
	"github.com/openfedcloud/fedmgr/internal/api/middleware"
	"github.com/openfedcloud/fedmgr/internal/api/types"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/services"
)

type ProvidersHandler struct {
	svc      services.ProviderService
	validate interface{ Struct(any) error }
}

func NewProvidersHandler(svc services.ProviderService, v interface{ Struct(any) error }) *ProvidersHandler {
	return &ProvidersHandler{svc: svc, validate: v}
}

// requestURL rebuilds the absolute URL the client used, for the links
// embedded in responses.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path
}

type providerLinks struct {
	Regions  string `json:"regions"`
	Projects string `json:"projects"`
	Idps     string `json:"idps"`
}

type providerView struct {
	models.Provider
	Links providerLinks `json:"links"`
}

func viewProvider(p *models.Provider, requestURL string) providerView {
	self := links.Base(requestURL) + links.Path(links.KindProviders) + "/" + p.ID.String()
	return providerView{
		Provider: *p,
		Links: providerLinks{
			Regions:  self + "/regions",
			Projects: self + "/projects",
			Idps:     self + "/idps",
		},
	}
}

func toJSONList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

func (h *ProvidersHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseList(r, ListOptions{
		Contains: []string{"name", "auth_endpoint", "description"},
		Exact:    []string{"type", "status", "is_public"},
	})
	items, total, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]providerView, 0, len(items))
	for i := range items {
		views = append(views, viewProvider(&items[i], requestURL(r)))
	}
	writePage(w, r, views, total, params)
}

func (h *ProvidersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ProviderCreateRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	adminIDs := make([]uuid.UUID, 0, len(req.SiteAdmins))
	for _, raw := range req.SiteAdmins {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeErrorStr(w, http.StatusUnprocessableEntity, "invalid site admin id")
			return
		}
		adminIDs = append(adminIDs, id)
	}
	p := models.Provider{
		Name:           req.Name,
		Type:           models.ProviderType(req.Type),
		AuthEndpoint:   req.AuthEndpoint,
		IsPublic:       req.IsPublic,
		ExpirationDate: req.ExpirationDate,
		SupportEmails:  toJSONList(req.SupportEmails),
		ImageTags:      toJSONList(req.ImageTags),
		NetworkTags:    toJSONList(req.NetworkTags),
		RallyUsername:  req.RallyUsername,
		RallyPassword:  req.RallyPassword,
		TestFlavorID:   req.TestFlavorID,
		TestNetworkID:  req.TestNetworkID,
		Description:    req.Description,
	}
	created, err := h.svc.Create(r.Context(), &p, adminIDs, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, viewProvider(created, requestURL(r)))
}

func (h *ProvidersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, viewProvider(p, requestURL(r)))
}

func (h *ProvidersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	var req types.ProviderUpdateRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	desired := models.Provider{
		Name:           req.Name,
		Type:           models.ProviderType(req.Type),
		AuthEndpoint:   req.AuthEndpoint,
		IsPublic:       req.IsPublic,
		ExpirationDate: req.ExpirationDate,
		SupportEmails:  toJSONList(req.SupportEmails),
		ImageTags:      toJSONList(req.ImageTags),
		NetworkTags:    toJSONList(req.NetworkTags),
		RallyUsername:  req.RallyUsername,
		RallyPassword:  req.RallyPassword,
		TestFlavorID:   req.TestFlavorID,
		TestNetworkID:  req.TestNetworkID,
		Description:    req.Description,
	}
	updated, err := h.svc.Update(r.Context(), id, &desired, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, viewProvider(updated, requestURL(r)))
}

func (h *ProvidersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

// SetStatus applies one lifecycle step chosen by the caller.
func (h *ProvidersHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	var req types.ProviderStatusRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	p, err := h.svc.ChangeStatus(r.Context(), id, models.ProviderStatus(req.Status), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, viewProvider(p, requestURL(r)))
}

func (h *ProvidersHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	p, err := h.svc.Submit(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, viewProvider(p, requestURL(r)))
}

func (h *ProvidersHandler) Unsubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	p, err := h.svc.Unsubmit(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, viewProvider(p, requestURL(r)))
}

func (h *ProvidersHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	admins, err := h.svc.ListAdmins(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, admins)
}

func (h *ProvidersHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	var req types.MemberRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	userID, _ := uuid.Parse(req.UserID)
	if err := h.svc.AddAdmin(r.Context(), id, userID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, nil)
}

func (h *ProvidersHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	if err := h.svc.RemoveAdmin(r.Context(), id, userID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *ProvidersHandler) ListTesters(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	testers, err := h.svc.ListTesters(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, testers)
}

func (h *ProvidersHandler) AddTester(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	var req types.MemberRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	userID, _ := uuid.Parse(req.UserID)
	if err := h.svc.AddTester(r.Context(), id, userID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, nil)
}

func (h *ProvidersHandler) RemoveTester(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	if err := h.svc.RemoveTester(r.Context(), id, userID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *ProvidersHandler) ListIdPs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	params := parseList(r, ListOptions{})
	cfgs, total, err := h.svc.ListIdPLinks(r.Context(), id, params, func(idpID uuid.UUID) string {
		return links.IdentityProvider(requestURL(r), idpID)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, cfgs, total, params)
}

func (h *ProvidersHandler) ConnectIdP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	var req types.IdpOverridesRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	ov := models.IdpOverride{
		GroupsClaim: req.GroupsClaim,
		Name:        req.Name,
		Protocol:    req.Protocol,
		Audience:    req.Audience,
	}
	row, err := h.svc.ConnectIdP(r.Context(), id, idpID, &ov, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, row)
}

func (h *ProvidersHandler) GetIdPLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	cfg, err := h.svc.GetIdPLink(r.Context(), id, idpID, func(idpID uuid.UUID) string {
		return links.IdentityProvider(requestURL(r), idpID)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

func (h *ProvidersHandler) UpdateIdPLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	var req types.IdpOverridesRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	ov := models.IdpOverride{
		GroupsClaim: req.GroupsClaim,
		Name:        req.Name,
		Protocol:    req.Protocol,
		Audience:    req.Audience,
	}
	row, err := h.svc.UpdateIdPLink(r.Context(), id, idpID, &ov, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, row)
}

func (h *ProvidersHandler) DisconnectIdP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	if err := h.svc.DisconnectIdP(r.Context(), id, idpID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}
