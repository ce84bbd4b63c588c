package models

import "time"

// EventType names a lifecycle transition published after a successful write.
type EventType string

const (
	EventRouteStarted        EventType = "route.started"
	EventRouteFinished       EventType = "route.finished"
	EventRouteCancelled      EventType = "route.cancelled"
	EventRouteDeleted        EventType = "route.deleted"
	EventMaintenanceStarted  EventType = "maintenance.started"
	EventMaintenanceFinished EventType = "maintenance.finished"
	EventRefuelingRecorded   EventType = "refueling.recorded"
	EventMonthClosed         EventType = "month.closed"
)

// Event describes a vehicle or closing transition.
type Event struct {
	Type          EventType     `json:"type"`
	VehicleID     string        `json:"vehicle_id,omitempty"`
	EntityID      string        `json:"entity_id,omitempty"`
	VehicleStatus VehicleStatus `json:"vehicle_status,omitempty"`
	CurrentKm     *float64      `json:"current_km,omitempty"`
	ActorID       string        `json:"actor_id"`
	Timestamp     time.Time     `json:"timestamp"`
}
