package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupomm-oficial/mm-frota/internal/fleet"
)

func (h *FleetHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	vehicles, err := h.fleet.ListVehicles(r.Context(), a)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *FleetHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in fleet.VehicleInput
	if err := decode(r, h.validate, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vehicle, err := h.fleet.CreateVehicle(r.Context(), a, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *FleetHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	vehicle, err := h.fleet.GetVehicle(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// VehicleReport totals one vehicle's records between the from and to query
// values.
func (h *FleetHandler) VehicleReport(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	f, err := h.listFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.From.IsZero() || f.To.IsZero() {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	report, err := h.fleet.ReportVehicle(r.Context(), a, chi.URLParam(r, "id"), f.From, f.To)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *FleetHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	drivers, err := h.fleet.ListDrivers(r.Context(), a)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drivers)
}

func (h *FleetHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in fleet.DriverInput
	if err := decode(r, h.validate, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	driver, err := h.fleet.CreateDriver(r.Context(), a, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, driver)
}
