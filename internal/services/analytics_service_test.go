package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmetrics/internal/config"
	apperrors "shopmetrics/internal/errors"
	"shopmetrics/internal/metrics"
	"shopmetrics/internal/sales"
)

func writeFixtureDataset(t *testing.T) *config.Paths {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		config.OrdersFile: `order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date
o1,c1,delivered,2023-01-15 10:30:00,2023-01-18 14:00:00
o2,c2,delivered,2023-02-01 09:00:00,2023-02-10 10:00:00
o3,c3,shipped,2023-02-05 16:45:00,
`,
		config.OrderItemsFile: `order_id,order_item_id,product_id,price,freight_value
o1,1,p1,100.00,10.00
o2,1,p2,200.00,20.00
o3,1,p1,300.00,30.00
`,
		config.ProductsFile: `product_id,product_category_name,product_name_length,product_description_length
p1,electronics,40,200
p2,,30,100
`,
		config.CustomersFile: `customer_id,customer_state,customer_city
c1,SP,sao paulo
c2,RJ,rio de janeiro
c3,MG,belo horizonte
`,
		config.ReviewsFile: `review_id,order_id,review_score,review_creation_date
r1,o1,5,2023-01-19 00:00:00
r2,o2,2,2023-02-11 00:00:00
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	return &config.Paths{
		WorkingDir: dir,
		DataDir:    dir,
		LogsDir:    dir,
		ExportsDir: dir,
	}
}

func newTestService(t *testing.T) *AnalyticsService {
	t.Helper()
	cfg := config.Default()
	return NewAnalyticsService(cfg, writeFixtureDataset(t), nil)
}

func TestAnalyticsServiceSummary(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.Summary(context.Background(), sales.Params{})
	require.NoError(t, err)

	// o3 is shipped, not delivered, so only o1 and o2 count
	assert.Equal(t, 300.0, summary.TotalRevenue)
	assert.Equal(t, 2, summary.TotalOrders)
	assert.Equal(t, 150.0, summary.AverageOrderValue)
	assert.InDelta(t, 3.5, summary.AverageReviewScore, 1e-9)

	require.Len(t, summary.MonthlyRevenue, 2)
	require.NotNil(t, summary.RevenueGrowth)
	assert.InDelta(t, 1.0, *summary.RevenueGrowth, 1e-9)

	require.NotNil(t, summary.YearOverYear)
	assert.Equal(t, 2023, summary.YearOverYear.CurrentYear)
	assert.Equal(t, 2022, summary.YearOverYear.ComparisonYear)
	assert.Equal(t, 300.0, summary.YearOverYear.CurrentRevenue)
}

func TestAnalyticsServiceSummaryIncludeFreight(t *testing.T) {
	cfg := config.Default()
	cfg.Analytics.IncludeFreight = true
	svc := NewAnalyticsService(cfg, writeFixtureDataset(t), nil)

	summary, err := svc.Summary(context.Background(), sales.Params{})
	require.NoError(t, err)

	// 300 in item prices plus 30 freight across two delivered orders
	assert.Equal(t, 330.0, summary.TotalRevenue)
	assert.Equal(t, 165.0, summary.AverageOrderValue)
	assert.Equal(t, 30.0, summary.TotalFreight)
}

func TestAnalyticsServiceDateFilter(t *testing.T) {
	svc := newTestService(t)
	jan := 1
	year := 2023

	summary, err := svc.Summary(context.Background(), sales.Params{
		StartYear:  &year,
		StartMonth: &jan,
		EndYear:    &year,
		EndMonth:   &jan,
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, summary.TotalRevenue)
	assert.Equal(t, 1, summary.TotalOrders)
}

func TestAnalyticsServiceRevenueByPeriod(t *testing.T) {
	svc := newTestService(t)

	periods, err := svc.RevenueByPeriod(context.Background(), sales.Params{}, metrics.GranularityMonth)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, 100.0, periods[0].Revenue)
	assert.Equal(t, 200.0, periods[1].Revenue)

	_, err = svc.RevenueByPeriod(context.Background(), sales.Params{}, metrics.Granularity("week"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestAnalyticsServiceBreakdowns(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	categories, err := svc.RevenueByCategory(ctx, sales.Params{})
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, metrics.UnknownBucket, categories[0].Category)
	assert.Equal(t, 200.0, categories[0].Revenue)
	assert.Equal(t, "electronics", categories[1].Category)

	states, err := svc.RevenueByState(ctx, sales.Params{})
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "RJ", states[0].State)

	buckets, err := svc.Satisfaction(ctx, sales.Params{})
	require.NoError(t, err)
	require.Len(t, buckets, 4)
	// o1 delivered in 3 days (score 5), o2 in 9 days (score 2)
	assert.InDelta(t, 5.0, buckets[0].AverageScore, 1e-9)
	assert.InDelta(t, 2.0, buckets[2].AverageScore, 1e-9)
}

func TestAnalyticsServiceInvalidParams(t *testing.T) {
	svc := newTestService(t)
	month := 3

	_, err := svc.Summary(context.Background(), sales.Params{StartMonth: &month})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestAnalyticsServiceMissingDataset(t *testing.T) {
	cfg := config.Default()
	paths := &config.Paths{DataDir: filepath.Join(t.TempDir(), "nope")}
	svc := NewAnalyticsService(cfg, paths, nil)

	_, err := svc.Run(context.Background(), sales.Params{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
