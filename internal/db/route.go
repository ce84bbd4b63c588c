package db

import (
	"context"
	"fmt"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRouteCollection implements RouteCollection for MongoDB
type MongoRouteCollection struct {
	Collection *mongo.Collection
}

func (c *MongoRouteCollection) InsertRoute(ctx context.Context, route models.Route) (string, error) {
	if c.Collection == nil {
		return "", ErrNilCollection
	}
	res, err := c.Collection.InsertOne(ctx, route)
	if err != nil {
		return "", fmt.Errorf("insert route: %w", err)
	}
	return insertedID(res), nil
}

func (c *MongoRouteCollection) FindRouteByID(ctx context.Context, id string) (*models.Route, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var route models.Route
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&route); err != nil {
		return nil, notFound(err)
	}
	return &route, nil
}

func (c *MongoRouteCollection) FindRoutes(ctx context.Context, filter RouteFilter) ([]models.Route, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	opts := options.Find().SetSort(bson.D{{Key: "startAt", Value: -1}})
	cur, err := c.Collection.Find(ctx, routeQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find routes: %w", err)
	}
	routes := []models.Route{}
	if err := cur.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	return routes, nil
}

func (c *MongoRouteCollection) UpdateRoute(ctx context.Context, route models.Route, from models.RouteStatus) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	res, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": route.ID, "status": from}, route)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (c *MongoRouteCollection) DeleteRoute(ctx context.Context, id string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func routeQuery(f RouteFilter) bson.M {
	q := bson.M{}
	if f.VehicleID != "" {
		q["vehicleId"] = f.VehicleID
	}
	if f.ResponsibleUserID != "" {
		q["responsibleUserId"] = f.ResponsibleUserID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if !f.Period.IsZero() {
		// reference date: endAt when present, startAt otherwise
		q["$or"] = bson.A{
			bson.M{"endAt": rangeQuery(f.Period)},
			bson.M{"endAt": nil, "startAt": rangeQuery(f.Period)},
		}
	}
	return q
}

func rangeQuery(p Period) bson.M {
	r := bson.M{}
	if !p.From.IsZero() {
		r["$gte"] = p.From
	}
	if !p.To.IsZero() {
		r["$lt"] = p.To
	}
	return r
}
