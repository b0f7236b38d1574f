package http

import (
	"context"

	"shopmetrics/internal/metrics"
	"shopmetrics/internal/sales"
)

// AnalyticsServiceInterface defines the interface for analytics operations
type AnalyticsServiceInterface interface {
	Summary(ctx context.Context, params sales.Params) (metrics.Summary, error)
	RevenueByPeriod(ctx context.Context, params sales.Params, granularity metrics.Granularity) ([]metrics.PeriodRevenue, error)
	RevenueByCategory(ctx context.Context, params sales.Params) ([]metrics.CategoryRevenue, error)
	RevenueByState(ctx context.Context, params sales.Params) ([]metrics.StateRevenue, error)
	Satisfaction(ctx context.Context, params sales.Params) ([]metrics.SpeedBucket, error)
}
