package db

import (
	"context"
	"fmt"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDriverCollection implements DriverCollection for MongoDB
type MongoDriverCollection struct {
	Collection *mongo.Collection
}

func (c *MongoDriverCollection) InsertDriver(ctx context.Context, driver models.Driver) (string, error) {
	if c.Collection == nil {
		return "", ErrNilCollection
	}
	res, err := c.Collection.InsertOne(ctx, driver)
	if err != nil {
		return "", fmt.Errorf("insert driver: %w", err)
	}
	return insertedID(res), nil
}

func (c *MongoDriverCollection) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var driver models.Driver
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&driver); err != nil {
		return nil, notFound(err)
	}
	return &driver, nil
}

func (c *MongoDriverCollection) FindDrivers(ctx context.Context, filter DriverFilter) ([]models.Driver, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	q := bson.M{}
	if filter.StoreID != "" {
		q["storeId"] = filter.StoreID
	}
	if filter.ActiveOnly {
		q["active"] = true
	}
	cur, err := c.Collection.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find drivers: %w", err)
	}
	drivers := []models.Driver{}
	if err := cur.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("decode drivers: %w", err)
	}
	return drivers, nil
}
