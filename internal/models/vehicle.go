package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleStatus is the position of a vehicle in its lifecycle.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "disponivel"
	VehicleOnRoute     VehicleStatus = "em_rota"
	VehicleMaintenance VehicleStatus = "manutencao"
)

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Plate     string             `bson:"plate" json:"plate"`
	Model     string             `bson:"model" json:"model"`
	StoreID   string             `bson:"storeId" json:"storeId"`
	Status    VehicleStatus      `bson:"status" json:"status"`
	CurrentKm *float64           `bson:"currentKm,omitempty" json:"currentKm,omitempty"`
	// Legacy records carry a single responsible user.
	ResponsibleUserID   string    `bson:"responsibleUserId,omitempty" json:"responsibleUserId,omitempty"`
	ResponsibleUserName string    `bson:"responsibleUserName,omitempty" json:"responsibleUserName,omitempty"`
	ResponsibleUserIDs  []string  `bson:"responsibleUserIds,omitempty" json:"responsibleUserIds,omitempty"`
	Active              bool      `bson:"active" json:"active"`
	Notes               string    `bson:"vehicleNotes,omitempty" json:"vehicleNotes,omitempty"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
}

// IsResponsible reports whether userID is one of the vehicle's responsible users.
func (v Vehicle) IsResponsible(userID string) bool {
	if userID == "" {
		return false
	}
	if v.ResponsibleUserID == userID {
		return true
	}
	for _, id := range v.ResponsibleUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Busy reports whether the vehicle is on a route or in maintenance.
func (v Vehicle) Busy() bool {
	return v.Status == VehicleOnRoute || v.Status == VehicleMaintenance
}

// Km returns the current odometer reading, or 0 when none was ever recorded.
func (v Vehicle) Km() float64 {
	if v.CurrentKm == nil {
		return 0
	}
	return *v.CurrentKm
}
