package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CloseMonthRequest selects the month to close. An empty body closes the
// current month.
type CloseMonthRequest struct {
	Year  int `json:"year" validate:"gte=1"`
	Month int `json:"month" validate:"gte=1,lte=12"`
}

// Dashboard serves the role-scoped overview of the current month.
func (h *FleetHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	d, err := h.fleet.Dashboard(r.Context(), a)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *FleetHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	summaries, err := h.fleet.ListSummaries(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *FleetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	summary, err := h.fleet.GetSummary(r.Context(), chi.URLParam(r, "monthKey"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *FleetHandler) CloseMonth(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	var req CloseMonthRequest
	err := decode(r, h.validate, &req)
	switch {
	case errors.Is(err, errEmptyBody):
		summary, err := h.fleet.CloseCurrentMonth(r.Context(), a)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.fleet.CloseMonth(r.Context(), a, req.Year, req.Month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
