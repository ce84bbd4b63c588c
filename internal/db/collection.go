package db

import (
	"context"
	"errors"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/models"
)

var (
	// ErrNotFound is returned when a document id does not resolve.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a guarded update matched no document.
	ErrConflict = errors.New("document state changed")
	// ErrNilCollection is returned when a collection wrapper was never bound.
	ErrNilCollection = errors.New("mongo collection is nil")
)

// Period is a half-open [From, To) time range. Zero bounds are open.
type Period struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether neither bound is set.
func (p Period) IsZero() bool {
	return p.From.IsZero() && p.To.IsZero()
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !t.Before(p.To) {
		return false
	}
	return true
}

// VehicleFilter selects vehicles. ResponsibleUserID matches both the legacy
// single-user field and the responsibleUserIds array.
type VehicleFilter struct {
	ResponsibleUserID string
	StoreID           string
	ActiveOnly        bool
}

// VehiclePatch is a partial vehicle update. Nil fields are left untouched.
type VehiclePatch struct {
	Status    *models.VehicleStatus
	CurrentKm *float64
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicles(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, patch VehiclePatch) error
	// ClaimForRoute moves a free vehicle to em_rota at km. It returns
	// ErrConflict when the vehicle is already on a route or in maintenance.
	ClaimForRoute(ctx context.Context, id string, km float64) error
}

// DriverFilter selects drivers.
type DriverFilter struct {
	StoreID    string
	ActiveOnly bool
}

// DriverCollection defines the interface for driver data operations.
type DriverCollection interface {
	InsertDriver(ctx context.Context, driver models.Driver) (string, error)
	FindDriverByID(ctx context.Context, id string) (*models.Driver, error)
	FindDrivers(ctx context.Context, filter DriverFilter) ([]models.Driver, error)
}

// RouteFilter selects routes. Period matches the route reference date
// (endAt when set, startAt otherwise).
type RouteFilter struct {
	VehicleID         string
	ResponsibleUserID string
	Status            models.RouteStatus
	Period            Period
}

// RouteCollection defines the interface for route data operations.
type RouteCollection interface {
	InsertRoute(ctx context.Context, route models.Route) (string, error)
	FindRouteByID(ctx context.Context, id string) (*models.Route, error)
	FindRoutes(ctx context.Context, filter RouteFilter) ([]models.Route, error)
	// UpdateRoute replaces the stored route only while it is still in the
	// from status; otherwise it returns ErrConflict.
	UpdateRoute(ctx context.Context, route models.Route, from models.RouteStatus) error
	DeleteRoute(ctx context.Context, id string) error
}

// RefuelingFilter selects refuelings by date.
type RefuelingFilter struct {
	VehicleID         string
	ResponsibleUserID string
	Period            Period
}

// RefuelingCollection defines the interface for refueling data operations.
type RefuelingCollection interface {
	InsertRefueling(ctx context.Context, refueling models.Refueling) (string, error)
	FindRefuelingByID(ctx context.Context, id string) (*models.Refueling, error)
	FindRefuelings(ctx context.Context, filter RefuelingFilter) ([]models.Refueling, error)
	DeleteRefueling(ctx context.Context, id string) error
}

// MaintenanceFilter selects maintenance entries by entry date.
type MaintenanceFilter struct {
	VehicleID         string
	ResponsibleUserID string
	Status            models.MaintenanceStatus
	Period            Period
}

// MaintenanceCollection defines the interface for maintenance data operations.
type MaintenanceCollection interface {
	InsertMaintenance(ctx context.Context, maintenance models.Maintenance) (string, error)
	FindMaintenanceByID(ctx context.Context, id string) (*models.Maintenance, error)
	FindMaintenances(ctx context.Context, filter MaintenanceFilter) ([]models.Maintenance, error)
	UpdateMaintenance(ctx context.Context, maintenance models.Maintenance, from models.MaintenanceStatus) error
	DeleteMaintenance(ctx context.Context, id string) error
}

// SummaryCollection defines the interface for monthly summary snapshots.
type SummaryCollection interface {
	UpsertSummary(ctx context.Context, summary models.MonthlySummary) error
	FindSummary(ctx context.Context, monthKey string) (*models.MonthlySummary, error)
	FindSummaries(ctx context.Context) ([]models.MonthlySummary, error)
}

// Transactor runs fn as one unit of work.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
