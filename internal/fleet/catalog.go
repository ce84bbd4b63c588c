package fleet

import (
	"context"
	"strings"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
)

type VehicleInput struct {
	Plate               string   `json:"plate" validate:"required"`
	Model               string   `json:"model" validate:"required"`
	StoreID             string   `json:"storeId"`
	CurrentKm           *float64 `json:"currentKm" validate:"omitempty,gte=0"`
	ResponsibleUserIDs  []string `json:"responsibleUserIds"`
	ResponsibleUserName string   `json:"responsibleUserName"`
	Notes               string   `json:"vehicleNotes"`
}

type DriverInput struct {
	Name                string `json:"name" validate:"required"`
	StoreID             string `json:"storeId"`
	ResponsibleUserID   string `json:"responsibleUserId"`
	ResponsibleUserName string `json:"responsibleUserName"`
}

// ListFilter narrows the role-scoped lists. Zero values match everything.
type ListFilter struct {
	VehicleID string
	From      time.Time
	To        time.Time
}

func (f ListFilter) period() db.Period {
	return db.Period{From: f.From, To: f.To}
}

// CreateVehicle registers a vehicle as disponivel and active. The first
// responsible user is also stored in the legacy single-user field.
func (s *Service) CreateVehicle(ctx context.Context, actor models.Actor, in VehicleInput) (*models.Vehicle, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	plate := strings.ToUpper(strings.TrimSpace(in.Plate))
	model := strings.TrimSpace(in.Model)
	if plate == "" || model == "" {
		return nil, ErrInvalidInput
	}
	if in.CurrentKm != nil && *in.CurrentKm < 0 {
		return nil, ErrInvalidOdometer
	}
	storeID := in.StoreID
	if storeID == "" {
		storeID = actor.StoreID
	}
	v := models.Vehicle{
		Plate:               plate,
		Model:               model,
		StoreID:             storeID,
		Status:              models.VehicleAvailable,
		CurrentKm:           in.CurrentKm,
		ResponsibleUserIDs:  in.ResponsibleUserIDs,
		ResponsibleUserName: strings.TrimSpace(in.ResponsibleUserName),
		Active:              true,
		Notes:               strings.TrimSpace(in.Notes),
		CreatedAt:           s.now(),
	}
	if len(in.ResponsibleUserIDs) > 0 {
		v.ResponsibleUserID = in.ResponsibleUserIDs[0]
	}
	id, err := s.vehicles.InsertVehicle(ctx, v)
	if err != nil {
		return nil, s.storeErr("insert vehicle", err, nil)
	}
	v.ID = objectID(id)
	s.log.WithFields(logrus.Fields{"vehicle_id": id, "plate": plate, "actor_id": actor.ID}).Info("vehicle created")
	return &v, nil
}

// GetVehicle returns a vehicle the actor may see.
func (s *Service) GetVehicle(ctx context.Context, actor models.Actor, id string) (*models.Vehicle, error) {
	v, err := s.loadVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canUse(actor, v) {
		return nil, ErrForbidden
	}
	return v, nil
}

// ListVehicles returns every vehicle for admins and the vehicles a user is
// responsible for otherwise.
func (s *Service) ListVehicles(ctx context.Context, actor models.Actor) ([]models.Vehicle, error) {
	filter := db.VehicleFilter{}
	if !actor.IsAdmin() {
		filter.ResponsibleUserID = actor.ID
	}
	vehicles, err := s.vehicles.FindVehicles(ctx, filter)
	if err != nil {
		return nil, s.storeErr("find vehicles", err, nil)
	}
	return vehicles, nil
}

func (s *Service) CreateDriver(ctx context.Context, actor models.Actor, in DriverInput) (*models.Driver, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	d := models.Driver{
		Name:                name,
		StoreID:             in.StoreID,
		ResponsibleUserID:   in.ResponsibleUserID,
		ResponsibleUserName: strings.TrimSpace(in.ResponsibleUserName),
		Active:              true,
		CreatedAt:           s.now(),
	}
	if d.StoreID == "" {
		d.StoreID = actor.StoreID
	}
	id, err := s.drivers.InsertDriver(ctx, d)
	if err != nil {
		return nil, s.storeErr("insert driver", err, nil)
	}
	d.ID = objectID(id)
	s.log.WithFields(logrus.Fields{"driver_id": id, "actor_id": actor.ID}).Info("driver created")
	return &d, nil
}

// ListDrivers returns active drivers of the actor's store, or all drivers
// for admins.
func (s *Service) ListDrivers(ctx context.Context, actor models.Actor) ([]models.Driver, error) {
	filter := db.DriverFilter{}
	if !actor.IsAdmin() {
		filter.StoreID = actor.StoreID
		filter.ActiveOnly = true
	}
	drivers, err := s.drivers.FindDrivers(ctx, filter)
	if err != nil {
		return nil, s.storeErr("find drivers", err, nil)
	}
	return drivers, nil
}

// ListRoutes returns routes newest first. Users only see their own.
func (s *Service) ListRoutes(ctx context.Context, actor models.Actor, f ListFilter) ([]models.Route, error) {
	filter := db.RouteFilter{VehicleID: f.VehicleID, Period: f.period()}
	if !actor.IsAdmin() {
		filter.ResponsibleUserID = actor.ID
	}
	routes, err := s.routes.FindRoutes(ctx, filter)
	if err != nil {
		return nil, s.storeErr("find routes", err, nil)
	}
	return routes, nil
}

// ListRefuelings returns refuelings newest first. Users only see their own.
func (s *Service) ListRefuelings(ctx context.Context, actor models.Actor, f ListFilter) ([]models.Refueling, error) {
	filter := db.RefuelingFilter{VehicleID: f.VehicleID, Period: f.period()}
	if !actor.IsAdmin() {
		filter.ResponsibleUserID = actor.ID
	}
	refuelings, err := s.refuelings.FindRefuelings(ctx, filter)
	if err != nil {
		return nil, s.storeErr("find refuelings", err, nil)
	}
	return refuelings, nil
}

// ListMaintenances returns maintenance entries newest first. Users only see
// their own.
func (s *Service) ListMaintenances(ctx context.Context, actor models.Actor, f ListFilter) ([]models.Maintenance, error) {
	filter := db.MaintenanceFilter{VehicleID: f.VehicleID, Period: f.period()}
	if !actor.IsAdmin() {
		filter.ResponsibleUserID = actor.ID
	}
	maintenances, err := s.maintenances.FindMaintenances(ctx, filter)
	if err != nil {
		return nil, s.storeErr("find maintenances", err, nil)
	}
	return maintenances, nil
}
