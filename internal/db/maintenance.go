package db

import (
	"context"
	"fmt"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMaintenanceCollection implements MaintenanceCollection for MongoDB
type MongoMaintenanceCollection struct {
	Collection *mongo.Collection
}

func (c *MongoMaintenanceCollection) InsertMaintenance(ctx context.Context, maintenance models.Maintenance) (string, error) {
	if c.Collection == nil {
		return "", ErrNilCollection
	}
	res, err := c.Collection.InsertOne(ctx, maintenance)
	if err != nil {
		return "", fmt.Errorf("insert maintenance: %w", err)
	}
	return insertedID(res), nil
}

func (c *MongoMaintenanceCollection) FindMaintenanceByID(ctx context.Context, id string) (*models.Maintenance, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var maintenance models.Maintenance
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&maintenance); err != nil {
		return nil, notFound(err)
	}
	return &maintenance, nil
}

func (c *MongoMaintenanceCollection) FindMaintenances(ctx context.Context, filter MaintenanceFilter) ([]models.Maintenance, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	q := bson.M{}
	if filter.VehicleID != "" {
		q["vehicleId"] = filter.VehicleID
	}
	if filter.ResponsibleUserID != "" {
		q["responsibleUserId"] = filter.ResponsibleUserID
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if !filter.Period.IsZero() {
		q["date"] = rangeQuery(filter.Period)
	}
	cur, err := c.Collection.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find maintenances: %w", err)
	}
	maintenances := []models.Maintenance{}
	if err := cur.All(ctx, &maintenances); err != nil {
		return nil, fmt.Errorf("decode maintenances: %w", err)
	}
	return maintenances, nil
}

func (c *MongoMaintenanceCollection) UpdateMaintenance(ctx context.Context, maintenance models.Maintenance, from models.MaintenanceStatus) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	res, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": maintenance.ID, "status": from}, maintenance)
	if err != nil {
		return fmt.Errorf("update maintenance: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (c *MongoMaintenanceCollection) DeleteMaintenance(ctx context.Context, id string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete maintenance: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
