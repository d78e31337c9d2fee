package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/openfedcloud/fedmgr/internal/api/middleware"
	"github.com/openfedcloud/fedmgr/internal/api/types"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/services"
)

type RegionsHandler struct {
	svc      services.RegionService
	validate interface{ Struct(any) error }
}

func NewRegionsHandler(svc services.RegionService, v interface{ Struct(any) error }) *RegionsHandler {
	return &RegionsHandler{svc: svc, validate: v}
}

func regionFromRequest(req *types.RegionRequest) (models.Region, error) {
	r := models.Region{
		Name:                req.Name,
		Description:         req.Description,
		OverbookingCPU:      req.OverbookingCPU,
		OverbookingRAM:      req.OverbookingRAM,
		BandwidthIn:         req.BandwidthIn,
		BandwidthOut:        req.BandwidthOut,
		DefaultPublicNet:    req.DefaultPublicNet,
		DefaultPrivateNet:   req.DefaultPrivateNet,
		PrivateNetProxyHost: req.PrivateNetProxyHost,
		PrivateNetProxyUser: req.PrivateNetProxyUser,
	}
	if req.LocationID != nil {
		id, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return r, err
		}
		r.LocationID = &id
	}
	return r, nil
}

func (h *RegionsHandler) List(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	params := parseList(r, ListOptions{
		Contains: []string{"name", "description"},
		Exact:    []string{"location_id"},
	})
	items, total, err := h.svc.List(r.Context(), providerID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, items, total, params)
}

func (h *RegionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	var req types.RegionRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	region, err := regionFromRequest(&req)
	if err != nil {
		writeErrorStr(w, http.StatusUnprocessableEntity, "invalid location id")
		return
	}
	created, err := h.svc.Create(r.Context(), providerID, &region, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *RegionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	regionID, ok := pathUUID(w, r, "regionID")
	if !ok {
		return
	}
	region, err := h.svc.Get(r.Context(), providerID, regionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, region)
}

func (h *RegionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	regionID, ok := pathUUID(w, r, "regionID")
	if !ok {
		return
	}
	var req types.RegionRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	desired, err := regionFromRequest(&req)
	if err != nil {
		writeErrorStr(w, http.StatusUnprocessableEntity, "invalid location id")
		return
	}
	updated, err := h.svc.Update(r.Context(), providerID, regionID, &desired, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *RegionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerID")
	if !ok {
		return
	}
	regionID, ok := pathUUID(w, r, "regionID")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), providerID, regionID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}
