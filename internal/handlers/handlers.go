package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/grupomm-oficial/mm-frota/internal/fleet"
	"github.com/grupomm-oficial/mm-frota/internal/middleware"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
)

// FleetService is the part of fleet.Service the HTTP surface drives.
type FleetService interface {
	CreateVehicle(ctx context.Context, actor models.Actor, in fleet.VehicleInput) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, actor models.Actor, id string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, actor models.Actor) ([]models.Vehicle, error)
	ReportVehicle(ctx context.Context, actor models.Actor, vehicleID string, from, to time.Time) (*fleet.VehicleReport, error)

	CreateDriver(ctx context.Context, actor models.Actor, in fleet.DriverInput) (*models.Driver, error)
	ListDrivers(ctx context.Context, actor models.Actor) ([]models.Driver, error)

	StartRoute(ctx context.Context, actor models.Actor, in fleet.StartRouteInput) (*models.Route, error)
	FinishRoute(ctx context.Context, actor models.Actor, id string, in fleet.FinishRouteInput) (*models.Route, error)
	CancelRoute(ctx context.Context, actor models.Actor, id string, in fleet.CancelRouteInput) (*models.Route, error)
	DeleteRoute(ctx context.Context, actor models.Actor, id string) error
	ListRoutes(ctx context.Context, actor models.Actor, f fleet.ListFilter) ([]models.Route, error)

	StartMaintenance(ctx context.Context, actor models.Actor, in fleet.StartMaintenanceInput) (*models.Maintenance, error)
	FinishMaintenance(ctx context.Context, actor models.Actor, id string, in fleet.FinishMaintenanceInput) (*models.Maintenance, error)
	DeleteMaintenance(ctx context.Context, actor models.Actor, id string) error
	ListMaintenances(ctx context.Context, actor models.Actor, f fleet.ListFilter) ([]models.Maintenance, error)

	RecordRefueling(ctx context.Context, actor models.Actor, in fleet.RefuelingInput) (*models.Refueling, error)
	DeleteRefueling(ctx context.Context, actor models.Actor, id string) error
	ListRefuelings(ctx context.Context, actor models.Actor, f fleet.ListFilter) ([]models.Refueling, error)

	CloseMonth(ctx context.Context, actor models.Actor, year, month int) (*models.MonthlySummary, error)
	CloseCurrentMonth(ctx context.Context, actor models.Actor) (*models.MonthlySummary, error)
	GetSummary(ctx context.Context, monthKey string) (*models.MonthlySummary, error)
	ListSummaries(ctx context.Context) ([]models.MonthlySummary, error)

	Dashboard(ctx context.Context, actor models.Actor) (*fleet.Dashboard, error)
}

// FleetHandler serves the fleet record endpoints.
type FleetHandler struct {
	fleet    FleetService
	validate *validator.Validate
	log      logrus.FieldLogger
	loc      *time.Location
}

// NewFleetHandler creates a fleet handler. Date-only query values are read
// in loc.
func NewFleetHandler(svc FleetService, log logrus.FieldLogger, loc *time.Location) *FleetHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &FleetHandler{fleet: svc, validate: validator.New(), log: log, loc: loc}
}

var errEmptyBody = errors.New("empty body")

// decode reads a JSON body into dst and runs the struct validation tags.
func decode(r *http.Request, v *validator.Validate, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, fmt.Sprintf("%s (%s)", f.Field(), f.Tag()))
	}
	return fmt.Errorf("invalid fields: %s", strings.Join(names, ", "))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps fleet error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, fleet.ErrMissingVehicle), errors.Is(err, fleet.ErrMissingDriver),
		errors.Is(err, fleet.ErrMissingRoute), errors.Is(err, fleet.ErrMissingMaintenance),
		errors.Is(err, fleet.ErrMissingRefueling), errors.Is(err, fleet.ErrMissingSummary):
		return http.StatusNotFound
	case errors.Is(err, fleet.ErrVehicleUnavailable), errors.Is(err, fleet.ErrRouteClosed),
		errors.Is(err, fleet.ErrMaintenanceClosed):
		return http.StatusConflict
	case errors.Is(err, fleet.ErrInvalidOdometer), errors.Is(err, fleet.ErrInvalidAmount),
		errors.Is(err, fleet.ErrInvalidMonth), errors.Is(err, fleet.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, fleet.ErrNotOwner), errors.Is(err, fleet.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, fleet.ErrNoDataForMonth):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fleet.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *FleetHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": middleware.GetRequestID(r.Context()),
		}).Error("request failed")
		if status == http.StatusServiceUnavailable {
			writeError(w, status, fleet.ErrStoreUnavailable.Error())
			return
		}
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// actor returns the authenticated actor or writes a 401.
func actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	a, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User context not found")
		return models.Actor{}, false
	}
	return *a, true
}

// parseTime accepts RFC3339 or a plain date.
func (h *FleetHandler) parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, h.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}

func (h *FleetHandler) listFilter(r *http.Request) (fleet.ListFilter, error) {
	q := r.URL.Query()
	from, err := h.parseTime(q.Get("from"))
	if err != nil {
		return fleet.ListFilter{}, err
	}
	to, err := h.parseTime(q.Get("to"))
	if err != nil {
		return fleet.ListFilter{}, err
	}
	return fleet.ListFilter{VehicleID: q.Get("vehicleId"), From: from, To: to}, nil
}
