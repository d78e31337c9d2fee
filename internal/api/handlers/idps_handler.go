package handlers

import (
	"net/http"

	"github.com/openfedcloud/fedmgr/internal/api/middleware"
	"github.com/openfedcloud/fedmgr/internal/api/types"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/services"
)

// IdpsHandler serves identity providers, their user groups and the
// SLAs those groups negotiated.
type IdpsHandler struct {
	svc      services.IdentityService
	validate interface{ Struct(any) error }
}

func NewIdpsHandler(svc services.IdentityService, v interface{ Struct(any) error }) *IdpsHandler {
	return &IdpsHandler{svc: svc, validate: v}
}

func (h *IdpsHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseList(r, ListOptions{
		Contains: []string{"name", "endpoint", "groups_claim", "description"},
		Exact:    []string{"protocol"},
	})
	items, total, err := h.svc.ListIdPs(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, items, total, params)
}

func (h *IdpsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.IdpCreateRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	idp := models.IdentityProvider{
		Endpoint:    req.Endpoint,
		Name:        req.Name,
		GroupsClaim: req.GroupsClaim,
		Protocol:    req.Protocol,
		Audience:    req.Audience,
		Description: req.Description,
	}
	created, err := h.svc.CreateIdP(r.Context(), &idp, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *IdpsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	idp, err := h.svc.GetIdP(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, idp)
}

func (h *IdpsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	var req types.IdpCreateRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	desired := models.IdentityProvider{
		Endpoint:    req.Endpoint,
		Name:        req.Name,
		GroupsClaim: req.GroupsClaim,
		Protocol:    req.Protocol,
		Audience:    req.Audience,
		Description: req.Description,
	}
	updated, err := h.svc.UpdateIdP(r.Context(), id, &desired, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *IdpsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	if err := h.svc.DeleteIdP(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *IdpsHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	params := parseList(r, ListOptions{Contains: []string{"name", "description"}})
	items, total, err := h.svc.ListGroups(r.Context(), idpID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, items, total, params)
}

func (h *IdpsHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	var req types.UserGroupRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	group := models.UserGroup{Name: req.Name, Description: req.Description}
	created, err := h.svc.CreateGroup(r.Context(), idpID, &group, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *IdpsHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "groupID")
	if !ok {
		return
	}
	group, err := h.svc.GetGroup(r.Context(), idpID, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, group)
}

func (h *IdpsHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "groupID")
	if !ok {
		return
	}
	var req types.UserGroupRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	desired := models.UserGroup{Name: req.Name, Description: req.Description}
	updated, err := h.svc.UpdateGroup(r.Context(), idpID, groupID, &desired, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *IdpsHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "groupID")
	if !ok {
		return
	}
	if err := h.svc.DeleteGroup(r.Context(), idpID, groupID); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *IdpsHandler) CreateSLA(w http.ResponseWriter, r *http.Request) {
	idpID, ok := pathUUID(w, r, "idpID")
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "groupID")
	if !ok {
		return
	}
	// The group must live under the IdP named in the path.
	if _, err := h.svc.GetGroup(r.Context(), idpID, groupID); err != nil {
		writeError(w, err)
		return
	}
	var req types.SLARequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	sla := models.SLA{
		Name:      req.Name,
		URL:       req.URL,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	created, err := h.svc.CreateSLA(r.Context(), groupID, &sla, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *IdpsHandler) ListSLAs(w http.ResponseWriter, r *http.Request) {
	params := parseList(r, ListOptions{
		Contains: []string{"name", "url"},
		Exact:    []string{"user_group_id"},
	})
	items, total, err := h.svc.ListSLAs(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, items, total, params)
}

func (h *IdpsHandler) GetSLA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "slaID")
	if !ok {
		return
	}
	sla, err := h.svc.GetSLA(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sla)
}

func (h *IdpsHandler) UpdateSLA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "slaID")
	if !ok {
		return
	}
	var req types.SLARequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	desired := models.SLA{
		Name:      req.Name,
		URL:       req.URL,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	updated, err := h.svc.UpdateSLA(r.Context(), id, &desired, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *IdpsHandler) DeleteSLA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "slaID")
	if !ok {
		return
	}
	if err := h.svc.DeleteSLA(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}
