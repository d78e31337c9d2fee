package handlers

import (
	"net/http"

	"github.com/openfedcloud/fedmgr/internal/api/middleware"
	"github.com/openfedcloud/fedmgr/internal/api/types"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/services"
)

type LocationsHandler struct {
	svc      services.RegionService
	validate interface{ Struct(any) error }
}

func NewLocationsHandler(svc services.RegionService, v interface{ Struct(any) error }) *LocationsHandler {
	return &LocationsHandler{svc: svc, validate: v}
}

func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseList(r, ListOptions{
		Contains: []string{"site", "country", "description"},
	})
	items, total, err := h.svc.ListLocations(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, items, total, params)
}

func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.LocationRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	loc := models.Location{
		Site:        req.Site,
		Country:     req.Country,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
	}
	created, err := h.svc.CreateLocation(r.Context(), &loc, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *LocationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "locationID")
	if !ok {
		return
	}
	loc, err := h.svc.GetLocation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, loc)
}

func (h *LocationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "locationID")
	if !ok {
		return
	}
	var req types.LocationRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	desired := models.Location{
		Site:        req.Site,
		Country:     req.Country,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
	}
	updated, err := h.svc.UpdateLocation(r.Context(), id, &desired, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "locationID")
	if !ok {
		return
	}
	if err := h.svc.DeleteLocation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}
