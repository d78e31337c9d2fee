package handlers

import (
	"net/http"

	"github.com/openfedcloud/fedmgr/internal/api/middleware"
	"github.com/openfedcloud/fedmgr/internal/api/types"
	"github.com/openfedcloud/fedmgr/internal/models"
	"github.com/openfedcloud/fedmgr/internal/services"
)

type UsersHandler struct {
	svc      services.UserService
	validate interface{ Struct(any) error }
}

func NewUsersHandler(svc services.UserService, v interface{ Struct(any) error }) *UsersHandler {
	return &UsersHandler{svc: svc, validate: v}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseList(r, ListOptions{
		Contains: []string{"name", "email", "sub", "issuer"},
	})
	items, total, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, r, items, total, params)
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.UserCreateRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	u := models.User{Sub: req.Sub, Issuer: req.Issuer, Name: req.Name, Email: req.Email}
	created, err := h.svc.Create(r.Context(), &u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// Me answers with the acting user resolved by the token layer.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r.Context())
	if u == nil {
		writeErrorStr(w, http.StatusUnauthorized, "no acting user")
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	var req types.UserUpdateRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	desired := models.User{Name: req.Name, Email: req.Email}
	updated, err := h.svc.Update(r.Context(), id, &desired)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}
