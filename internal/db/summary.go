package db

import (
	"context"
	"fmt"

	"github.com/grupomm-oficial/mm-frota/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSummaryCollection implements SummaryCollection for MongoDB
type MongoSummaryCollection struct {
	Collection *mongo.Collection
}

// UpsertSummary replaces the snapshot for its month, creating it if absent.
func (c *MongoSummaryCollection) UpsertSummary(ctx context.Context, summary models.MonthlySummary) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	summary.Key = summary.MonthKey
	opts := options.Replace().SetUpsert(true)
	if _, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": summary.MonthKey}, summary, opts); err != nil {
		return fmt.Errorf("upsert summary %s: %w", summary.MonthKey, err)
	}
	return nil
}

func (c *MongoSummaryCollection) FindSummary(ctx context.Context, monthKey string) (*models.MonthlySummary, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	var summary models.MonthlySummary
	if err := c.Collection.FindOne(ctx, bson.M{"_id": monthKey}).Decode(&summary); err != nil {
		return nil, notFound(err)
	}
	return &summary, nil
}

func (c *MongoSummaryCollection) FindSummaries(ctx context.Context) ([]models.MonthlySummary, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	cur, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find summaries: %w", err)
	}
	summaries := []models.MonthlySummary{}
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode summaries: %w", err)
	}
	return summaries, nil
}
