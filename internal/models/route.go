package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RouteStatus is the lifecycle state of a route.
type RouteStatus string

const (
	RouteInProgress RouteStatus = "em_andamento"
	RouteFinished   RouteStatus = "finalizada"
	RouteCancelled  RouteStatus = "cancelada"
)

// Route represents a single vehicle trip from start to finish or cancellation.
type Route struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID    string             `json:"vehicleId" bson:"vehicleId"`
	VehiclePlate string             `json:"vehiclePlate" bson:"vehiclePlate"`
	VehicleModel string             `json:"vehicleModel" bson:"vehicleModel"`
	StoreID      string             `json:"storeId" bson:"storeId"`
	DriverID     string             `json:"driverId" bson:"driverId"`
	DriverName   string             `json:"driverName" bson:"driverName"`
	Origin       string             `json:"origem,omitempty" bson:"origem,omitempty"`
	Destination  string             `json:"destino,omitempty" bson:"destino,omitempty"`
	StartKm      float64            `json:"startKm" bson:"startKm"`
	EndKm        *float64           `json:"endKm" bson:"endKm"`
	StartAt      time.Time          `json:"startAt" bson:"startAt"`
	EndAt        *time.Time         `json:"endAt" bson:"endAt"`
	DistanceKm   *float64           `json:"distanceKm" bson:"distanceKm"`
	Status       RouteStatus        `json:"status" bson:"status"`
	Notes        string             `json:"observacoes,omitempty" bson:"observacoes,omitempty"`

	ResponsibleUserID   string `json:"responsibleUserId" bson:"responsibleUserId"`
	ResponsibleUserName string `json:"responsibleUserName" bson:"responsibleUserName"`

	FinishedBy   string     `json:"finishedBy,omitempty" bson:"finishedBy,omitempty"`
	CancelledBy  string     `json:"cancelledBy,omitempty" bson:"cancelledBy,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CancelReason string     `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
}

// Distance returns the km a route contributes to totals. Cancelled routes
// never contribute; a missing distanceKm is derived from endKm.
func (r *Route) Distance() float64 {
	if r.Status == RouteCancelled {
		return 0
	}
	if r.DistanceKm != nil {
		return *r.DistanceKm
	}
	if r.EndKm != nil {
		return *r.EndKm - r.StartKm
	}
	return 0
}

// ReferenceDate is the date used to place a route in a calendar month:
// endAt when known, startAt otherwise.
func (r *Route) ReferenceDate() time.Time {
	if r.EndAt != nil && !r.EndAt.IsZero() {
		return *r.EndAt
	}
	return r.StartAt
}
