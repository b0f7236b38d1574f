package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shopmetrics/internal/config"
	"shopmetrics/internal/dataset"
	apperrors "shopmetrics/internal/errors"
	"shopmetrics/internal/infrastructure"
	"shopmetrics/internal/metrics"
	"shopmetrics/internal/sales"
)

// AnalyticsService runs the analysis pipeline and serves metric queries.
// Every query re-runs load and prepare from the source files; there is no
// cached state shared between requests, so concurrent dashboard sessions
// each work on independent in-memory snapshots.
type AnalyticsService struct {
	cfg             *config.Config
	paths           *config.Paths
	loader          *dataset.Loader
	preparer        *sales.Preparer
	businessMetrics *infrastructure.BusinessMetrics
	logger          *slog.Logger
}

// NewAnalyticsService creates the analytics service
func NewAnalyticsService(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "analytics_service")

	return &AnalyticsService{
		cfg:      cfg,
		paths:    paths,
		loader:   dataset.NewLoader(paths, logger),
		preparer: sales.NewPreparer(cfg.Analytics, logger),
		logger:   logger,
	}
}

// SetBusinessMetrics wires the OpenTelemetry instruments. Optional; the
// service works without them.
func (s *AnalyticsService) SetBusinessMetrics(m *infrastructure.BusinessMetrics) {
	s.businessMetrics = m
}

// Run executes one full pipeline pass: load the source files, prepare the
// sales dataset for the given parameters. Exposed for consumers that need
// the prepared records themselves, like the report exporter.
func (s *AnalyticsService) Run(ctx context.Context, params sales.Params) (*sales.Dataset, error) {
	runID := uuid.New().String()
	start := time.Now()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger := s.logger.With(slog.String("run_id", runID))

	if s.cfg.Analytics.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Analytics.AnalysisTimeout)
		defer cancel()
	}

	logger.InfoContext(ctx, "analysis run started",
		slog.String("data_dir", s.paths.DataDir))

	tables, err := s.loader.Load(ctx)
	if err != nil {
		s.recordRun(ctx, start, nil, err)
		logger.ErrorContext(ctx, "dataset load failed", slog.String("error", err.Error()))
		return nil, err
	}

	ds, dropped, err := s.preparer.Prepare(ctx, tables, params)
	if err != nil {
		s.recordRun(ctx, start, nil, err)
		logger.ErrorContext(ctx, "preparation failed", slog.String("error", err.Error()))
		return nil, err
	}

	s.recordRun(ctx, start, &runStats{
		loaded:   len(tables.Orders) + len(tables.OrderItems) + len(tables.Products) + len(tables.Customers) + len(tables.Reviews),
		dropped:  dropped.UnmatchedItems + dropped.NotDelivered + dropped.OutOfRange,
		returned: len(ds.Sales),
	}, nil)

	logger.InfoContext(ctx, "analysis run completed",
		slog.Int("sales_records", len(ds.Sales)),
		slog.Duration("duration", time.Since(start)))

	return ds, nil
}

// Summary computes the key metrics summary for the given parameters
func (s *AnalyticsService) Summary(ctx context.Context, params sales.Params) (metrics.Summary, error) {
	ds, err := s.Run(ctx, params)
	if err != nil {
		return metrics.Summary{}, err
	}
	return metrics.KeySummary(ds, params, metrics.SummaryOptions{
		TopCategories:  s.cfg.Analytics.TopCategories,
		IncludeFreight: s.cfg.Analytics.IncludeFreight,
	}), nil
}

// RevenueByPeriod computes the per-period revenue breakdown
func (s *AnalyticsService) RevenueByPeriod(ctx context.Context, params sales.Params, granularity metrics.Granularity) ([]metrics.PeriodRevenue, error) {
	if !granularity.IsValid() {
		return nil, apperrors.NewAppValidationError("granularity must be year or month")
	}

	ds, err := s.Run(ctx, params)
	if err != nil {
		return nil, err
	}
	return metrics.RevenueByPeriod(ds.Sales, granularity), nil
}

// RevenueByCategory computes the top product category breakdown
func (s *AnalyticsService) RevenueByCategory(ctx context.Context, params sales.Params) ([]metrics.CategoryRevenue, error) {
	ds, err := s.Run(ctx, params)
	if err != nil {
		return nil, err
	}
	return metrics.TopCategories(
		metrics.RevenueByCategory(ds.Sales, ds.Products),
		s.cfg.Analytics.TopCategories), nil
}

// RevenueByState computes the customer state breakdown
func (s *AnalyticsService) RevenueByState(ctx context.Context, params sales.Params) ([]metrics.StateRevenue, error) {
	ds, err := s.Run(ctx, params)
	if err != nil {
		return nil, err
	}
	return metrics.RevenueByState(ds.Sales, ds.Customers), nil
}

// Satisfaction computes average review score per delivery-speed bucket
func (s *AnalyticsService) Satisfaction(ctx context.Context, params sales.Params) ([]metrics.SpeedBucket, error) {
	ds, err := s.Run(ctx, params)
	if err != nil {
		return nil, err
	}
	return metrics.DeliverySpeedReviewCorrelation(ds.Sales, ds.Reviews), nil
}

type runStats struct {
	loaded   int
	dropped  int
	returned int
}

func (s *AnalyticsService) recordRun(ctx context.Context, start time.Time, stats *runStats, err error) {
	if s.businessMetrics == nil {
		return
	}

	s.businessMetrics.AnalysisRunsTotal.Add(ctx, 1)
	s.businessMetrics.AnalysisRunDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		s.businessMetrics.AnalysisErrors.Add(ctx, 1)
		return
	}
	if stats != nil {
		s.businessMetrics.DatasetRowsLoaded.Add(ctx, int64(stats.loaded))
		s.businessMetrics.DatasetRowsDropped.Add(ctx, int64(stats.dropped))
		s.businessMetrics.SalesRecordsReturned.Add(ctx, int64(stats.returned))
	}
}
