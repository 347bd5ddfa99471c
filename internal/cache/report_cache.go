// Package cache keeps computed company reports in Redis
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corplearning/backend/internal/models"
	"github.com/go-redis/redis/v8"
)

const reportKeyPrefix = "progress:report:company:"

// Store is the subset of the Redis client used by the cache
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ReportCache stores company reports for a fixed TTL
type ReportCache struct {
	store Store
	ttl   time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(store Store, ttl time.Duration) *ReportCache {
	return &ReportCache{
		store: store,
		ttl:   ttl,
	}
}

// Get returns the cached report of a company, or nil when none is cached
func (c *ReportCache) Get(ctx context.Context, companyID int) (*models.CompanyReport, error) {
	raw, err := c.store.Get(ctx, reportKey(companyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report models.CompanyReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}

	return &report, nil
}

// Set caches the report of a company
func (c *ReportCache) Set(ctx context.Context, report *models.CompanyReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := c.store.Set(ctx, reportKey(report.CompanyID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}

// Invalidate drops the cached report of a company
func (c *ReportCache) Invalidate(ctx context.Context, companyID int) error {
	if err := c.store.Del(ctx, reportKey(companyID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached report: %w", err)
	}
	return nil
}

func reportKey(companyID int) string {
	return fmt.Sprintf("%s%d", reportKeyPrefix, companyID)
}
