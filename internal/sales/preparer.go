package sales

import (
	"context"
	"log/slog"

	"shopmetrics/internal/config"
	"shopmetrics/internal/dataset"
	"shopmetrics/pkg/contracts/domain"
)

// Dataset is the output of a preparation run: the filtered sales set plus
// the untouched reference tables metric functions join against.
type Dataset struct {
	Sales     []domain.SalesRecord
	Products  []domain.Product
	Customers []domain.Customer
	Reviews   []domain.Review
}

// DroppedRows reports how much each narrowing stage removed during a run
type DroppedRows struct {
	UnmatchedItems int `json:"unmatched_items"`
	NotDelivered   int `json:"not_delivered"`
	OutOfRange     int `json:"out_of_range"`
}

// Preparer runs the fixed preparation pipeline over loaded tables:
// join, temporal fields, delivered filter, date range filter, delivery speed.
type Preparer struct {
	cfg    config.AnalyticsConfig
	logger *slog.Logger
}

// NewPreparer creates a preparer with the given analysis configuration
func NewPreparer(cfg config.AnalyticsConfig, logger *slog.Logger) *Preparer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TimestampLayout == "" {
		cfg.TimestampLayout = DefaultTimestampLayout
	}
	return &Preparer{
		cfg:    cfg,
		logger: logger,
	}
}

// Prepare transforms the raw tables into the analysis dataset. The stage
// order is fixed; params only affect the date range filter. Every narrowing
// is counted and logged so silent row drops are visible in operation.
func (p *Preparer) Prepare(ctx context.Context, tables *dataset.Tables, params Params) (*Dataset, *DroppedRows, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	records, unmatched := JoinSales(tables.Orders, tables.OrderItems)
	if unmatched > 0 {
		p.logger.WarnContext(ctx, "order items dropped in join",
			slog.Int("dropped", unmatched),
			slog.Int("joined", len(records)))
	}

	records, err := AddTemporalFields(records, p.cfg.TimestampLayout)
	if err != nil {
		return nil, nil, err
	}

	joined := len(records)
	records = FilterDelivered(records)
	notDelivered := joined - len(records)

	delivered := len(records)
	records = FilterDateRange(records, params)
	outOfRange := delivered - len(records)

	records, err = AddDeliverySpeed(records, p.cfg.TimestampLayout)
	if err != nil {
		return nil, nil, err
	}

	dropped := &DroppedRows{
		UnmatchedItems: unmatched,
		NotDelivered:   notDelivered,
		OutOfRange:     outOfRange,
	}

	p.logger.InfoContext(ctx, "sales dataset prepared",
		slog.Int("records", len(records)),
		slog.Int("dropped_unmatched", dropped.UnmatchedItems),
		slog.Int("dropped_not_delivered", dropped.NotDelivered),
		slog.Int("dropped_out_of_range", dropped.OutOfRange))

	return &Dataset{
		Sales:     records,
		Products:  tables.Products,
		Customers: tables.Customers,
		Reviews:   tables.Reviews,
	}, dropped, nil
}
