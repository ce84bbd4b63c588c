package cache

import (
	"context"
	"errors"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
)

const summaryListKey = "summaries:all"

func summaryKey(monthKey string) string {
	return "summary:" + monthKey
}

// SummaryCache is a read-through cache in front of a SummaryCollection.
// Cache failures are logged and the call falls through to the record store.
type SummaryCache struct {
	next  db.SummaryCollection
	store Store
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewSummaryCache(next db.SummaryCollection, store Store, ttl time.Duration, log logrus.FieldLogger) *SummaryCache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SummaryCache{next: next, store: store, ttl: ttl, log: log.WithField("component", "summary_cache")}
}

// UpsertSummary writes through and drops the cached copies.
func (c *SummaryCache) UpsertSummary(ctx context.Context, summary models.MonthlySummary) error {
	if err := c.next.UpsertSummary(ctx, summary); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, summaryKey(summary.MonthKey), summaryListKey); err != nil {
		c.log.WithError(err).WithField("month_key", summary.MonthKey).Warn("failed to invalidate summary cache")
	}
	return nil
}

func (c *SummaryCache) FindSummary(ctx context.Context, monthKey string) (*models.MonthlySummary, error) {
	var cached models.MonthlySummary
	err := c.store.Get(ctx, summaryKey(monthKey), &cached)
	if err == nil {
		cached.Key = cached.MonthKey
		return &cached, nil
	}
	c.logMiss(err, summaryKey(monthKey))

	summary, err := c.next.FindSummary(ctx, monthKey)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, summaryKey(monthKey), summary, c.ttl); err != nil {
		c.log.WithError(err).Warn("failed to cache summary")
	}
	return summary, nil
}

func (c *SummaryCache) FindSummaries(ctx context.Context) ([]models.MonthlySummary, error) {
	var cached []models.MonthlySummary
	err := c.store.Get(ctx, summaryListKey, &cached)
	if err == nil {
		for i := range cached {
			cached[i].Key = cached[i].MonthKey
		}
		return cached, nil
	}
	c.logMiss(err, summaryListKey)

	summaries, err := c.next.FindSummaries(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, summaryListKey, summaries, c.ttl); err != nil {
		c.log.WithError(err).Warn("failed to cache summary list")
	}
	return summaries, nil
}

func (c *SummaryCache) logMiss(err error, key string) {
	if errors.Is(err, ErrMiss) {
		c.log.WithField("key", key).Debug("cache miss")
		return
	}
	c.log.WithError(err).WithField("key", key).Warn("cache read failed")
}
