package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupomm-oficial/mm-frota/internal/fleet"
)

func (h *FleetHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	f, err := h.listFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	routes, err := h.fleet.ListRoutes(r.Context(), a, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *FleetHandler) StartRoute(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in fleet.StartRouteInput
	if err := decode(r, h.validate, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	route, err := h.fleet.StartRoute(r.Context(), a, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, route)
}

func (h *FleetHandler) FinishRoute(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in fleet.FinishRouteInput
	if err := decode(r, h.validate, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	route, err := h.fleet.FinishRoute(r.Context(), a, chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// CancelRoute accepts an empty body; the reason is optional.
func (h *FleetHandler) CancelRoute(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in fleet.CancelRouteInput
	if err := decode(r, h.validate, &in); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	route, err := h.fleet.CancelRoute(r.Context(), a, chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (h *FleetHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.fleet.DeleteRoute(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
