package fleet

import (
	"context"
	"strings"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type RefuelingInput struct {
	VehicleID     string     `json:"vehicleId" validate:"required"`
	Date          *time.Time `json:"date"`
	OdometerKm    float64    `json:"odometerKm" validate:"gt=0"`
	Liters        float64    `json:"liters" validate:"gt=0"`
	PricePerLiter float64    `json:"pricePerL" validate:"gt=0"`
	StationName   string     `json:"stationName"`
}

// FuelTotal is liters times price, rounded half away from zero to cents.
func FuelTotal(liters, pricePerLiter float64) float64 {
	return decimal.NewFromFloat(liters).
		Mul(decimal.NewFromFloat(pricePerLiter)).
		Round(2).
		InexactFloat64()
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RecordRefueling stores a refueling and overwrites the vehicle odometer
// with its reading, even when that is lower than the current value.
func (s *Service) RecordRefueling(ctx context.Context, actor models.Actor, in RefuelingInput) (*models.Refueling, error) {
	if in.OdometerKm <= 0 {
		return nil, ErrInvalidOdometer
	}
	if in.Liters <= 0 || in.PricePerLiter <= 0 {
		return nil, ErrInvalidAmount
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
	r := models.Refueling{
		VehicleID:           in.VehicleID,
		VehiclePlate:        vehicle.Plate,
		VehicleModel:        vehicle.Model,
		StoreID:             vehicle.StoreID,
		ResponsibleUserID:   actor.ID,
		ResponsibleUserName: actor.Name,
		Date:                date,
		OdometerKm:          in.OdometerKm,
		Liters:              in.Liters,
		PricePerLiter:       in.PricePerLiter,
		Total:               FuelTotal(in.Liters, in.PricePerLiter),
		StationName:         strings.TrimSpace(in.StationName),
	}

	err = s.inTx(ctx, "record refueling", func(ctx context.Context) error {
		id, err := s.refuelings.InsertRefueling(ctx, r)
		if err != nil {
			return s.storeErr("insert refueling", err, nil)
		}
		r.ID = objectID(id)
		if err := s.vehicles.UpdateVehicle(ctx, in.VehicleID, kmPatch(in.OdometerKm)); err != nil {
			return s.storeErr("update vehicle", err, ErrMissingVehicle)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if vehicle.CurrentKm != nil && in.OdometerKm < *vehicle.CurrentKm {
		s.log.WithFields(logrus.Fields{
			"vehicle_id":  in.VehicleID,
			"previous_km": *vehicle.CurrentKm,
			"current_km":  in.OdometerKm,
		}).Warn("refueling rewinds vehicle odometer")
	}
	s.log.WithFields(logrus.Fields{
		"vehicle_id":   in.VehicleID,
		"refueling_id": r.ID.Hex(),
		"current_km":   in.OdometerKm,
		"total":        r.Total,
		"actor_id":     actor.ID,
	}).Info("refueling recorded")
	s.publish(ctx, models.Event{
		Type:          models.EventRefuelingRecorded,
		VehicleID:     in.VehicleID,
		EntityID:      r.ID.Hex(),
		VehicleStatus: vehicle.Status,
		CurrentKm:     ptr(in.OdometerKm),
		ActorID:       actor.ID,
	})
	return &r, nil
}

// DeleteRefueling removes a refueling without touching the vehicle.
func (s *Service) DeleteRefueling(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	r, err := s.refuelings.FindRefuelingByID(ctx, id)
	if err != nil {
		return s.storeErr("find refueling", err, ErrMissingRefueling)
	}
	if err := s.refuelings.DeleteRefueling(ctx, id); err != nil {
		return s.storeErr("delete refueling", err, ErrMissingRefueling)
	}
	s.log.WithFields(logrus.Fields{
		"refueling_id": id,
		"vehicle_id":   r.VehicleID,
		"total":        r.Total,
		"actor_id":     actor.ID,
	}).Info("refueling deleted")
	return nil
}
