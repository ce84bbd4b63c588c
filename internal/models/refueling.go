package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Refueling represents a fuel purchase for a vehicle.
type Refueling struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID           string             `json:"vehicleId" bson:"vehicleId"`
	VehiclePlate        string             `json:"vehiclePlate" bson:"vehiclePlate"`
	VehicleModel        string             `json:"vehicleModel" bson:"vehicleModel"`
	StoreID             string             `json:"storeId" bson:"storeId"`
	ResponsibleUserID   string             `json:"responsibleUserId" bson:"responsibleUserId"`
	ResponsibleUserName string             `json:"responsibleUserName" bson:"responsibleUserName"`
	Date                time.Time          `json:"date" bson:"date"`
	OdometerKm          float64            `json:"odometerKm" bson:"odometerKm"`
	Liters              float64            `json:"liters" bson:"liters"`
	PricePerLiter       float64            `json:"pricePerL" bson:"pricePerL"`
	Total               float64            `json:"total" bson:"total"` // liters * pricePerL, 2 decimals
	StationName         string             `json:"stationName,omitempty" bson:"stationName,omitempty"`
}
