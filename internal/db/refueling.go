package db

import (
	"context"
	"fmt"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRefuelingCollection implements RefuelingCollection for MongoDB
type MongoRefuelingCollection struct {
	Collection *mongo.Collection
}

func (c *MongoRefuelingCollection) InsertRefueling(ctx context.Context, refueling models.Refueling) (string, error) {
	if c.Collection == nil {
		return "", ErrNilCollection
	}
	res, err := c.Collection.InsertOne(ctx, refueling)
	if err != nil {
		return "", fmt.Errorf("insert refueling: %w", err)
	}
	return insertedID(res), nil
}

func (c *MongoRefuelingCollection) FindRefuelingByID(ctx context.Context, id string) (*models.Refueling, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var refueling models.Refueling
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&refueling); err != nil {
		return nil, notFound(err)
	}
	return &refueling, nil
}

func (c *MongoRefuelingCollection) FindRefuelings(ctx context.Context, filter RefuelingFilter) ([]models.Refueling, error) {
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
	if !filter.Period.IsZero() {
		q["date"] = rangeQuery(filter.Period)
	}
	cur, err := c.Collection.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find refuelings: %w", err)
	}
	refuelings := []models.Refueling{}
	if err := cur.All(ctx, &refuelings); err != nil {
		return nil, fmt.Errorf("decode refuelings: %w", err)
	}
	return refuelings, nil
}

func (c *MongoRefuelingCollection) DeleteRefueling(ctx context.Context, id string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete refueling: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
