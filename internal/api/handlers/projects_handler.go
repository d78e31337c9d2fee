package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/openfedcloud/fedmgr/internal/api/links"
	"github.com/openfedcloud/fedmgr/internal/api/middleware"
	"github.com/openfedcloud/fedmgr/internal/api/types"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/services"
)

type ProjectsHandler struct {
	svc      services.ProjectService
	validate interface{ Struct(any) error }
}

func NewProjectsHandler(svc services.ProjectService, v interface{ Struct(any) error }) *ProjectsHandler {
	return &ProjectsHandler{svc: svc, validate: v}
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	params := parseList(r, ListOptions{
		Contains: []string{"name", "iaas_project_id", "description"},
		Exact:    []string{"is_root", "sla_id"},
	})
	items, total, err := h.svc.List(r.Context(), providerID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, items, total, params)
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	var req types.ProjectRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	p := models.Project{
		Name:          req.Name,
		IaasProjectID: req.IaasProjectID,
		IsRoot:        req.IsRoot,
		Description:   req.Description,
	}
	created, err := h.svc.Create(r.Context(), providerID, &p, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), providerID, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	var req types.ProjectRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	desired := models.Project{
		Name:          req.Name,
		IaasProjectID: req.IaasProjectID,
		IsRoot:        req.IsRoot,
		Description:   req.Description,
	}
	updated, err := h.svc.Update(r.Context(), providerID, projectID, &desired, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), providerID, projectID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *ProjectsHandler) ConnectSLA(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	var req types.SLALinkRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	slaID, _ := uuid.Parse(req.SLAID)
	if err := h.svc.ConnectSLA(r.Context(), providerID, projectID, slaID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, nil)
}

func (h *ProjectsHandler) DisconnectSLA(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	if err := h.svc.DisconnectSLA(r.Context(), providerID, projectID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *ProjectsHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	params := parseList(r, ListOptions{})
	cfgs, total, err := h.svc.ListRegionConfigs(r.Context(), providerID, projectID, params, func(regionID uuid.UUID) string {
		return links.Region(requestURL(r), providerID, regionID)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, cfgs, total, params)
}

func (h *ProjectsHandler) ConnectRegion(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	regionID, ok := pathUUID(w, r, "regionID")
	if !ok {
		return
	}
	var req types.RegionOverridesRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	ov := models.RegionOverride{
		DefaultPublicNet:    req.DefaultPublicNet,
		DefaultPrivateNet:   req.DefaultPrivateNet,
		PrivateNetProxyHost: req.PrivateNetProxyHost,
		PrivateNetProxyUser: req.PrivateNetProxyUser,
	}
	row, err := h.svc.ConnectRegion(r.Context(), providerID, projectID, regionID, &ov, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, row)
}

func (h *ProjectsHandler) GetRegionConfig(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	regionID, ok := pathUUID(w, r, "regionID")
	if !ok {
		return
	}
	cfg, err := h.svc.GetRegionConfig(r.Context(), providerID, projectID, regionID, func(regionID uuid.UUID) string {
		return links.Region(requestURL(r), providerID, regionID)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

func (h *ProjectsHandler) UpdateRegionLink(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	regionID, ok := pathUUID(w, r, "regionID")
	if !ok {
		return
	}
	var req types.RegionOverridesRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	ov := models.RegionOverride{
		DefaultPublicNet:    req.DefaultPublicNet,
		DefaultPrivateNet:   req.DefaultPrivateNet,
		PrivateNetProxyHost: req.PrivateNetProxyHost,
		PrivateNetProxyUser: req.PrivateNetProxyUser,
	}
	row, err := h.svc.UpdateRegionLink(r.Context(), providerID, projectID, regionID, &ov, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, row)
}

func (h *ProjectsHandler) DisconnectRegion(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}
	regionID, ok := pathUUID(w, r, "regionID")
	if !ok {
		return
	}
	if err := h.svc.DisconnectRegion(r.Context(), providerID, projectID, regionID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}
