package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupomm-oficial/mm-frota/internal/fleet"
)

func (h *FleetHandler) ListMaintenances(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	f, err := h.listFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.fleet.ListMaintenances(r.Context(), a, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *FleetHandler) StartMaintenance(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in fleet.StartMaintenanceInput
	if err := decode(r, h.validate, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.fleet.StartMaintenance(r.Context(), a, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *FleetHandler) FinishMaintenance(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in fleet.FinishMaintenanceInput
	if err := decode(r, h.validate, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.fleet.FinishMaintenance(r.Context(), a, chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *FleetHandler) DeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.fleet.DeleteMaintenance(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FleetHandler) ListRefuelings(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	f, err := h.listFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.fleet.ListRefuelings(r.Context(), a, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *FleetHandler) RecordRefueling(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in fleet.RefuelingInput
	if err := decode(r, h.validate, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	refueling, err := h.fleet.RecordRefueling(r.Context(), a, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, refueling)
}

func (h *FleetHandler) DeleteRefueling(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.fleet.DeleteRefueling(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
