package messaging

import (
	"context"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
)

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	log logrus.FieldLogger
}

func NewLogPublisher(log logrus.FieldLogger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event models.Event) error {
	entry := p.log.WithFields(logrus.Fields{
		"event":      event.Type,
		"vehicle_id": event.VehicleID,
		"entity_id":  event.EntityID,
		"actor_id":   event.ActorID,
	})
	if event.VehicleStatus != "" {
		entry = entry.WithField("vehicle_status", event.VehicleStatus)
	}
	if event.CurrentKm != nil {
		entry = entry.WithField("current_km", *event.CurrentKm)
	}
	entry.Debug("fleet event")
	return nil
}
