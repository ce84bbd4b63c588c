package fleet

import (
	"context"
	"errors"
	"strings"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
)

// StartRouteInput starts a trip. StartKm overrides the vehicle odometer.
type StartRouteInput struct {
	VehicleID   string   `json:"vehicleId" validate:"required"`
	DriverID    string   `json:"driverId" validate:"required"`
	Origin      string   `json:"origem"`
	Destination string   `json:"destino"`
	Notes       string   `json:"observacoes"`
	StartKm     *float64 `json:"startKm" validate:"omitempty,gte=0"`
}

// FinishRouteInput closes a trip. Destination and Notes replace the stored
// values only when non-empty.
type FinishRouteInput struct {
	EndKm       *float64 `json:"endKm" validate:"required,gte=0"`
	Destination string   `json:"destino"`
	Notes       string   `json:"observacoes"`
}

type CancelRouteInput struct {
	Reason string `json:"reason"`
}

// StartRoute claims a free vehicle and creates an in-progress route owned by
// the actor.
func (s *Service) StartRoute(ctx context.Context, actor models.Actor, in StartRouteInput) (*models.Route, error) {
	if in.StartKm != nil && *in.StartKm < 0 {
		return nil, ErrInvalidOdometer
	}
	vehicle, err := s.loadVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if !canUse(actor, vehicle) {
		return nil, ErrForbidden
	}
	if vehicle.Busy() {
		return nil, ErrVehicleUnavailable
	}
	driver, err := s.drivers.FindDriverByID(ctx, in.DriverID)
	if err != nil {
		return nil, s.storeErr("find driver", err, ErrMissingDriver)
	}

	startKm := vehicle.Km()
	if in.StartKm != nil {
		startKm = *in.StartKm
	}
	route := models.Route{
		VehicleID:           in.VehicleID,
		VehiclePlate:        vehicle.Plate,
		VehicleModel:        vehicle.Model,
		StoreID:             vehicle.StoreID,
		DriverID:            in.DriverID,
		DriverName:          driver.Name,
		Origin:              strings.TrimSpace(in.Origin),
		Destination:         strings.TrimSpace(in.Destination),
		StartKm:             startKm,
		StartAt:             s.now(),
		Status:              models.RouteInProgress,
		Notes:               strings.TrimSpace(in.Notes),
		ResponsibleUserID:   actor.ID,
		ResponsibleUserName: actor.Name,
	}

	err = s.inTx(ctx, "start route", func(ctx context.Context) error {
		if err := s.vehicles.ClaimForRoute(ctx, in.VehicleID, startKm); err != nil {
			if errors.Is(err, db.ErrConflict) {
				return ErrVehicleUnavailable
			}
			return s.storeErr("claim vehicle", err, ErrMissingVehicle)
		}
		id, err := s.routes.InsertRoute(ctx, route)
		if err != nil {
			return s.storeErr("insert route", err, nil)
		}
		route.ID = objectID(id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"vehicle_id": in.VehicleID,
		"route_id":   route.ID.Hex(),
		"status":     models.VehicleOnRoute,
		"current_km": startKm,
		"actor_id":   actor.ID,
	}).Info("route started")
	s.publish(ctx, models.Event{
		Type:          models.EventRouteStarted,
		VehicleID:     in.VehicleID,
		EntityID:      route.ID.Hex(),
		VehicleStatus: models.VehicleOnRoute,
		CurrentKm:     ptr(startKm),
		ActorID:       actor.ID,
	})
	return &route, nil
}

// ownRoute loads an in-progress route owned by the actor. Admins get no
// exception here.
func (s *Service) ownRoute(ctx context.Context, actor models.Actor, id string) (*models.Route, error) {
	route, err := s.routes.FindRouteByID(ctx, id)
	if err != nil {
		return nil, s.storeErr("find route", err, ErrMissingRoute)
	}
	if route.ResponsibleUserID != actor.ID {
		return nil, ErrNotOwner
	}
	if route.Status != models.RouteInProgress {
		return nil, ErrRouteClosed
	}
	return route, nil
}

// closeRoute writes the terminal route document and the vehicle release as
// one unit.
func (s *Service) closeRoute(ctx context.Context, op string, route *models.Route, km float64) error {
	return s.inTx(ctx, op, func(ctx context.Context) error {
		if err := s.routes.UpdateRoute(ctx, *route, models.RouteInProgress); err != nil {
			if errors.Is(err, db.ErrConflict) {
				return ErrRouteClosed
			}
			return s.storeErr(op, err, ErrMissingRoute)
		}
		return s.setVehicle(ctx, route.VehicleID, models.VehicleAvailable, &km)
	})
}

// FinishRoute records the end odometer, computes the distance and frees the
// vehicle at endKm.
func (s *Service) FinishRoute(ctx context.Context, actor models.Actor, id string, in FinishRouteInput) (*models.Route, error) {
	route, err := s.ownRoute(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.EndKm == nil || *in.EndKm < route.StartKm {
		return nil, ErrInvalidOdometer
	}
	endKm := *in.EndKm

	now := s.now()
	route.EndKm = ptr(endKm)
	route.EndAt = &now
	route.DistanceKm = ptr(endKm - route.StartKm)
	route.Status = models.RouteFinished
	route.FinishedBy = actor.ID
	if d := strings.TrimSpace(in.Destination); d != "" {
		route.Destination = d
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		route.Notes = n
	}

	if err := s.closeRoute(ctx, "finish route", route, endKm); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"vehicle_id":  route.VehicleID,
		"route_id":    id,
		"status":      models.VehicleAvailable,
		"current_km":  endKm,
		"distance_km": *route.DistanceKm,
		"actor_id":    actor.ID,
	}).Info("route finished")
	s.publish(ctx, models.Event{
		Type:          models.EventRouteFinished,
		VehicleID:     route.VehicleID,
		EntityID:      id,
		VehicleStatus: models.VehicleAvailable,
		CurrentKm:     ptr(endKm),
		ActorID:       actor.ID,
	})
	return route, nil
}

// CancelRoute aborts the trip and rolls the vehicle odometer back to the
// route's startKm.
func (s *Service) CancelRoute(ctx context.Context, actor models.Actor, id string, in CancelRouteInput) (*models.Route, error) {
	route, err := s.ownRoute(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	route.Status = models.RouteCancelled
	route.CancelledBy = actor.ID
	route.CancelledAt = &now
	route.CancelReason = strings.TrimSpace(in.Reason)

	if err := s.closeRoute(ctx, "cancel route", route, route.StartKm); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"vehicle_id": route.VehicleID,
		"route_id":   id,
		"status":     models.VehicleAvailable,
		"current_km": route.StartKm,
		"actor_id":   actor.ID,
	}).Info("route cancelled")
	s.publish(ctx, models.Event{
		Type:          models.EventRouteCancelled,
		VehicleID:     route.VehicleID,
		EntityID:      id,
		VehicleStatus: models.VehicleAvailable,
		CurrentKm:     ptr(route.StartKm),
		ActorID:       actor.ID,
	})
	return route, nil
}

// DeleteRoute removes any route. Deleting an in-progress route forces the
// vehicle back to disponivel and leaves its odometer as it is.
func (s *Service) DeleteRoute(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	route, err := s.routes.FindRouteByID(ctx, id)
	if err != nil {
		return s.storeErr("find route", err, ErrMissingRoute)
	}

	err = s.inTx(ctx, "delete route", func(ctx context.Context) error {
		if err := s.routes.DeleteRoute(ctx, id); err != nil {
			return s.storeErr("delete route", err, ErrMissingRoute)
		}
		if route.Status != models.RouteInProgress {
			return nil
		}
		err := s.setVehicle(ctx, route.VehicleID, models.VehicleAvailable, nil)
		if errors.Is(err, ErrMissingVehicle) {
			s.log.WithField("vehicle_id", route.VehicleID).Warn("deleted route references a missing vehicle")
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"vehicle_id":   route.VehicleID,
		"route_id":     id,
		"route_status": route.Status,
		"actor_id":     actor.ID,
	}).Info("route deleted")
	event := models.Event{
		Type:      models.EventRouteDeleted,
		VehicleID: route.VehicleID,
		EntityID:  id,
		ActorID:   actor.ID,
	}
	if route.Status == models.RouteInProgress {
		event.VehicleStatus = models.VehicleAvailable
	}
	s.publish(ctx, event)
	return nil
}
