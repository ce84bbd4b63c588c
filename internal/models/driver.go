package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Driver is a person allowed to drive fleet vehicles.
type Driver struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	StoreID             string             `bson:"storeId" json:"storeId"`
	ResponsibleUserID   string             `bson:"responsibleUserId" json:"responsibleUserId"`
	ResponsibleUserName string             `bson:"responsibleUserName" json:"responsibleUserName"`
	Active              bool               `bson:"active" json:"active"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}
