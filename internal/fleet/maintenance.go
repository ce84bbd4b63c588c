package fleet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
)

type StartMaintenanceInput struct {
	VehicleID    string     `json:"vehicleId" validate:"required"`
	Date         *time.Time `json:"date"`
	OdometerKm   float64    `json:"odometerKm" validate:"gt=0"`
	Cost         float64    `json:"cost" validate:"gt=0"`
	Type         string     `json:"type" validate:"required"`
	WorkshopName string     `json:"workshopName"`
	Notes        string     `json:"notes"`
}

type FinishMaintenanceInput struct {
	EndKm   float64    `json:"endKm" validate:"gt=0"`
	EndDate *time.Time `json:"endDate"`
}

// StartMaintenance opens a maintenance entry and puts the vehicle in
// manutencao at the entry odometer. A vehicle on a route is not blocked.
func (s *Service) StartMaintenance(ctx context.Context, actor models.Actor, in StartMaintenanceInput) (*models.Maintenance, error) {
	kind := strings.TrimSpace(in.Type)
	if kind == "" {
		return nil, ErrInvalidInput
	}
	if in.Cost <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.OdometerKm <= 0 {
		return nil, ErrInvalidOdometer
	}
	vehicle, err := s.loadVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if !canUse(actor, vehicle) {
		return nil, ErrForbidden
	}

	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	m := models.Maintenance{
		VehicleID:           in.VehicleID,
		VehiclePlate:        vehicle.Plate,
		VehicleModel:        vehicle.Model,
		StoreID:             vehicle.StoreID,
		ResponsibleUserID:   actor.ID,
		ResponsibleUserName: actor.Name,
		Date:                date,
		OdometerKm:          in.OdometerKm,
		Cost:                roundMoney(in.Cost),
		Type:                kind,
		WorkshopName:        strings.TrimSpace(in.WorkshopName),
		Notes:               strings.TrimSpace(in.Notes),
		Status:              models.MaintenanceInProgress,
	}

	err = s.inTx(ctx, "start maintenance", func(ctx context.Context) error {
		id, err := s.maintenances.InsertMaintenance(ctx, m)
		if err != nil {
			return s.storeErr("insert maintenance", err, nil)
		}
		m.ID = objectID(id)
		return s.setVehicle(ctx, in.VehicleID, models.VehicleMaintenance, ptr(in.OdometerKm))
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"vehicle_id":     in.VehicleID,
		"maintenance_id": m.ID.Hex(),
		"status":         models.VehicleMaintenance,
		"current_km":     in.OdometerKm,
		"actor_id":       actor.ID,
	}).Info("maintenance started")
	s.publish(ctx, models.Event{
		Type:          models.EventMaintenanceStarted,
		VehicleID:     in.VehicleID,
		EntityID:      m.ID.Hex(),
		VehicleStatus: models.VehicleMaintenance,
		CurrentKm:     ptr(in.OdometerKm),
		ActorID:       actor.ID,
	})
	return &m, nil
}

// FinishMaintenance completes the entry and frees the vehicle at endKm.
// Admins and any responsible user of the vehicle may finish it.
func (s *Service) FinishMaintenance(ctx context.Context, actor models.Actor, id string, in FinishMaintenanceInput) (*models.Maintenance, error) {
	m, err := s.maintenances.FindMaintenanceByID(ctx, id)
	if err != nil {
		return nil, s.storeErr("find maintenance", err, ErrMissingMaintenance)
	}
	if !actor.IsAdmin() {
		vehicle, err := s.loadVehicle(ctx, m.VehicleID)
		if err != nil {
			return nil, err
		}
		if !canUse(actor, vehicle) {
			return nil, ErrForbidden
		}
	}
	if m.Status == models.MaintenanceDone {
		return nil, ErrMaintenanceClosed
	}
	if in.EndKm < m.OdometerKm {
		return nil, ErrInvalidOdometer
	}
	if in.EndDate != nil && !in.EndDate.IsZero() && in.EndDate.Before(m.Date) {
		return nil, ErrInvalidInput
	}

	end := s.now()
	if in.EndDate != nil && !in.EndDate.IsZero() {
		end = *in.EndDate
	}
	m.Status = models.MaintenanceDone
	m.EndKm = ptr(in.EndKm)
	m.EndDate = &end

	err = s.inTx(ctx, "finish maintenance", func(ctx context.Context) error {
		if err := s.maintenances.UpdateMaintenance(ctx, *m, models.MaintenanceInProgress); err != nil {
			if errors.Is(err, db.ErrConflict) {
				return ErrMaintenanceClosed
			}
			return s.storeErr("update maintenance", err, ErrMissingMaintenance)
		}
		return s.setVehicle(ctx, m.VehicleID, models.VehicleAvailable, ptr(in.EndKm))
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"vehicle_id":     m.VehicleID,
		"maintenance_id": id,
		"status":         models.VehicleAvailable,
		"current_km":     in.EndKm,
		"actor_id":       actor.ID,
	}).Info("maintenance finished")
	s.publish(ctx, models.Event{
		Type:          models.EventMaintenanceFinished,
		VehicleID:     m.VehicleID,
		EntityID:      id,
		VehicleStatus: models.VehicleAvailable,
		CurrentKm:     ptr(in.EndKm),
		ActorID:       actor.ID,
	})
	return m, nil
}

// DeleteMaintenance removes an entry without touching the vehicle.
func (s *Service) DeleteMaintenance(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.maintenances.DeleteMaintenance(ctx, id); err != nil {
		return s.storeErr("delete maintenance", err, ErrMissingMaintenance)
	}
	s.log.WithFields(logrus.Fields{"maintenance_id": id, "actor_id": actor.ID}).Info("maintenance deleted")
	return nil
}
