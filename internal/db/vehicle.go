package db

import (
	"context"
	"fmt"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVehicleCollection implements VehicleCollection for MongoDB
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

func (c *MongoVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	if c.Collection == nil {
		return "", ErrNilCollection
	}
	res, err := c.Collection.InsertOne(ctx, vehicle)
	if err != nil {
		return "", fmt.Errorf("insert vehicle: %w", err)
	}
	return insertedID(res), nil
}

func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var vehicle models.Vehicle
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&vehicle); err != nil {
		return nil, notFound(err)
	}
	return &vehicle, nil
}

func (c *MongoVehicleCollection) FindVehicles(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	opts := options.Find().SetSort(bson.D{{Key: "plate", Value: 1}})
	cur, err := c.Collection.Find(ctx, vehicleQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find vehicles: %w", err)
	}
	vehicles := []models.Vehicle{}
	if err := cur.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	return vehicles, nil
}

// UpdateVehicle merges the non-nil patch fields into the vehicle.
func (c *MongoVehicleCollection) UpdateVehicle(ctx context.Context, id string, patch VehiclePatch) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set := vehiclePatchSet(patch)
	if len(set) == 0 {
		return nil
	}
	res, err := c.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoVehicleCollection) ClaimForRoute(ctx context.Context, id string, km float64) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	filter := bson.M{
		"_id":    oid,
		"status": bson.M{"$nin": bson.A{models.VehicleOnRoute, models.VehicleMaintenance}},
	}
	update := bson.M{"$set": bson.M{"status": models.VehicleOnRoute, "currentKm": km}}
	res, err := c.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("claim vehicle: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func vehicleQuery(f VehicleFilter) bson.M {
	q := bson.M{}
	if f.ResponsibleUserID != "" {
		q["$or"] = bson.A{
			bson.M{"responsibleUserId": f.ResponsibleUserID},
			bson.M{"responsibleUserIds": f.ResponsibleUserID},
		}
	}
	if f.StoreID != "" {
		q["storeId"] = f.StoreID
	}
	if f.ActiveOnly {
		q["active"] = true
	}
	return q
}

func vehiclePatchSet(p VehiclePatch) bson.M {
	set := bson.M{}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.CurrentKm != nil {
		set["currentKm"] = *p.CurrentKm
	}
	return set
}
