// Package fleet holds the vehicle, route and monthly aggregation engines.
// Every operation takes the calling actor explicitly and reads the current
// state from the record store before writing the next one.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publisher receives lifecycle events after successful writes.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// Dependencies wires a Service. Nil Tx runs writes directly, nil Events
// drops events, nil Location means UTC and nil Now means time.Now.
type Dependencies struct {
	Vehicles     db.VehicleCollection
	Drivers      db.DriverCollection
	Routes       db.RouteCollection
	Refuelings   db.RefuelingCollection
	Maintenances db.MaintenanceCollection
	Summaries    db.SummaryCollection
	Tx           db.Transactor
	Events       Publisher
	Logger       logrus.FieldLogger
	Location     *time.Location
	Now          func() time.Time
}

type Service struct {
	vehicles     db.VehicleCollection
	drivers      db.DriverCollection
	routes       db.RouteCollection
	refuelings   db.RefuelingCollection
	maintenances db.MaintenanceCollection
	summaries    db.SummaryCollection
	tx           db.Transactor
	events       Publisher
	log          logrus.FieldLogger
	loc          *time.Location
	now          func() time.Time
}

func NewService(d Dependencies) *Service {
	s := &Service{
		vehicles:     d.Vehicles,
		drivers:      d.Drivers,
		routes:       d.Routes,
		refuelings:   d.Refuelings,
		maintenances: d.Maintenances,
		summaries:    d.Summaries,
		tx:           d.Tx,
		events:       d.Events,
		log:          d.Logger,
		loc:          d.Location,
		now:          d.Now,
	}
	if s.tx == nil {
		s.tx = directTx{}
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type directTx struct{}

func (directTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// storeErr translates a record store error. db.ErrNotFound becomes missing
// when it is non-nil; anything else is logged and wrapped.
func (s *Service) storeErr(op string, err error, missing error) error {
	if missing != nil && errors.Is(err, db.ErrNotFound) {
		return missing
	}
	if IsKind(err) {
		return err
	}
	s.log.WithError(err).WithField("op", op).Error("record store call failed")
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

func (s *Service) inTx(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := s.tx.WithTransaction(ctx, fn); err != nil {
		return s.storeErr(op, err, nil)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event models.Event) {
	if s.events == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Warn("failed to publish event")
	}
}

func (s *Service) loadVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	v, err := s.vehicles.FindVehicleByID(ctx, id)
	if err != nil {
		return nil, s.storeErr("find vehicle", err, ErrMissingVehicle)
	}
	return v, nil
}

// setVehicle writes the vehicle side of a lifecycle transition.
func (s *Service) setVehicle(ctx context.Context, id string, status models.VehicleStatus, km *float64) error {
	if err := s.vehicles.UpdateVehicle(ctx, id, db.VehiclePatch{Status: &status, CurrentKm: km}); err != nil {
		return s.storeErr("update vehicle", err, ErrMissingVehicle)
	}
	return nil
}

func kmPatch(km float64) db.VehiclePatch {
	return db.VehiclePatch{CurrentKm: &km}
}

// canUse reports whether the actor may operate the vehicle: admins always,
// users when they are one of its responsible users.
func canUse(actor models.Actor, v *models.Vehicle) bool {
	return actor.IsAdmin() || v.IsResponsible(actor.ID)
}

func ptr[T any](v T) *T {
	return &v
}

// objectID converts an id returned by an insert back onto the document.
func objectID(id string) primitive.ObjectID {
	oid, _ := primitive.ObjectIDFromHex(id)
	return oid
}
