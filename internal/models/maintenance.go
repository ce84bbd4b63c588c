package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// MaintenanceStatus is the lifecycle state of a maintenance entry.
type MaintenanceStatus string

const (
	MaintenanceInProgress MaintenanceStatus = "em_andamento"
	MaintenanceDone       MaintenanceStatus = "concluida"
)

// Maintenance represents a vehicle maintenance record.
type Maintenance struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID           string             `json:"vehicleId" bson:"vehicleId"`
	VehiclePlate        string             `json:"vehiclePlate" bson:"vehiclePlate"`
	VehicleModel        string             `json:"vehicleModel" bson:"vehicleModel"`
	StoreID             string             `json:"storeId" bson:"storeId"`
	ResponsibleUserID   string             `json:"responsibleUserId" bson:"responsibleUserId"`
	ResponsibleUserName string             `json:"responsibleUserName" bson:"responsibleUserName"`
	Date                time.Time          `json:"date" bson:"date"`             // entry date
	OdometerKm          float64            `json:"odometerKm" bson:"odometerKm"` // km at entry
	Cost                float64            `json:"cost" bson:"cost"`
	Type                string             `json:"type" bson:"type"`
	WorkshopName        string             `json:"workshopName,omitempty" bson:"workshopName,omitempty"`
	Notes               string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Status              MaintenanceStatus  `json:"status" bson:"status"`
	EndKm               *float64           `json:"endKm" bson:"endKm"`
	EndDate             *time.Time         `json:"endDate" bson:"endDate"`
}
