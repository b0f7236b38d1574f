package metrics

import (
	"shopmetrics/internal/sales"
	"shopmetrics/pkg/contracts/domain"
)

// Summary aggregates the key metrics into one record for dashboard cards.
// Field names are a contract with downstream consumers and must stay stable
// across releases.
type Summary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalFreight      float64 `json:"total_freight"`
	TotalOrders       int     `json:"total_orders"`
	AverageOrderValue float64 `json:"average_order_value"`

	// RevenueGrowth compares the two most recent monthly periods. Nil when
	// there is no previous period or its revenue is zero.
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`

	// YearOverYear compares the newest year in range against the comparison
	// year. Nil when the prepared dataset is empty and no end year was
	// requested, leaving no year to anchor the comparison on.
	YearOverYear *YearComparison `json:"year_over_year,omitempty"`

	MonthlyRevenue []PeriodRevenue   `json:"monthly_revenue"`
	TopCategories  []CategoryRevenue `json:"top_categories"`
	RevenueByState []StateRevenue    `json:"revenue_by_state"`

	Satisfaction        []SpeedBucket `json:"satisfaction"`
	AverageReviewScore  float64       `json:"average_review_score"`
	AverageDeliveryDays float64       `json:"average_delivery_days"`
}

// YearComparison is the year-over-year view of the summary. Both year slices
// are taken from the already range-filtered records, so a window that
// excludes the comparison year yields empty comparison figures. Growth
// pointers are nil when the comparison figure is zero, where the ratio is
// undefined.
type YearComparison struct {
	CurrentYear       int     `json:"current_year"`
	ComparisonYear    int     `json:"comparison_year"`
	CurrentRevenue    float64 `json:"current_revenue"`
	ComparisonRevenue float64 `json:"comparison_revenue"`
	CurrentOrders     int     `json:"current_orders"`
	ComparisonOrders  int     `json:"comparison_orders"`

	RevenueGrowth           *float64 `json:"revenue_growth,omitempty"`
	OrdersGrowth            *float64 `json:"orders_growth,omitempty"`
	AverageOrderValueGrowth *float64 `json:"average_order_value_growth,omitempty"`

	CurrentMonthly    []PeriodRevenue `json:"current_year_monthly"`
	ComparisonMonthly []PeriodRevenue `json:"comparison_year_monthly"`
}

// SummaryOptions tunes how the key summary is assembled.
type SummaryOptions struct {
	// TopCategories bounds the category breakdown; non-positive keeps all.
	TopCategories int

	// IncludeFreight folds freight into the summary's revenue figures,
	// affecting TotalRevenue, AverageOrderValue and the year-over-year
	// revenue columns. Per-period and per-category breakdowns always stay
	// on item prices.
	IncludeFreight bool
}

// KeySummary computes the full dashboard summary from a prepared dataset.
// The year-over-year block anchors on params.EndYear when set, otherwise on
// the newest year present in the records, and compares it against
// params.ComparisonYear, defaulting to the year before.
func KeySummary(ds *sales.Dataset, params sales.Params, opts SummaryOptions) Summary {
	monthly := RevenueByPeriod(ds.Sales, GranularityMonth)

	orders := TotalOrders(ds.Sales)
	revenue := summaryRevenue(ds.Sales, opts.IncludeFreight)

	s := Summary{
		TotalRevenue:      revenue,
		TotalFreight:      TotalFreight(ds.Sales),
		TotalOrders:       orders,
		AverageOrderValue: orderValue(revenue, orders),

		YearOverYear: yearOverYear(ds.Sales, params, opts.IncludeFreight),

		MonthlyRevenue: monthly,
		TopCategories:  TopCategories(RevenueByCategory(ds.Sales, ds.Products), opts.TopCategories),
		RevenueByState: RevenueByState(ds.Sales, ds.Customers),

		Satisfaction:        DeliverySpeedReviewCorrelation(ds.Sales, ds.Reviews),
		AverageReviewScore:  AverageReviewScore(ds.Sales, ds.Reviews),
		AverageDeliveryDays: AverageDeliverySpeed(ds.Sales),
	}

	if len(monthly) >= 2 {
		current := monthly[len(monthly)-1].Revenue
		previous := monthly[len(monthly)-2].Revenue
		if rate, ok := GrowthRate(current, previous); ok {
			s.RevenueGrowth = &rate
		}
	}

	return s
}

// summaryRevenue is the revenue basis the summary reports: item prices, plus
// freight when the operator opted in.
func summaryRevenue(records []domain.SalesRecord, includeFreight bool) float64 {
	revenue := TotalRevenue(records)
	if includeFreight {
		revenue += TotalFreight(records)
	}
	return revenue
}

func yearOverYear(records []domain.SalesRecord, params sales.Params, includeFreight bool) *YearComparison {
	currentYear, ok := anchorYear(records, params)
	if !ok {
		return nil
	}

	comparisonYear := currentYear - 1
	if params.ComparisonYear != nil {
		comparisonYear = *params.ComparisonYear
	}

	current := yearSlice(records, currentYear)
	comparison := yearSlice(records, comparisonYear)

	yc := &YearComparison{
		CurrentYear:       currentYear,
		ComparisonYear:    comparisonYear,
		CurrentRevenue:    summaryRevenue(current, includeFreight),
		ComparisonRevenue: summaryRevenue(comparison, includeFreight),
		CurrentOrders:     TotalOrders(current),
		ComparisonOrders:  TotalOrders(comparison),
		CurrentMonthly:    RevenueByPeriod(current, GranularityMonth),
		ComparisonMonthly: RevenueByPeriod(comparison, GranularityMonth),
	}

	if rate, ok := GrowthRate(yc.CurrentRevenue, yc.ComparisonRevenue); ok {
		yc.RevenueGrowth = &rate
	}
	if rate, ok := GrowthRate(float64(yc.CurrentOrders), float64(yc.ComparisonOrders)); ok {
		yc.OrdersGrowth = &rate
	}

	currentAOV := orderValue(yc.CurrentRevenue, yc.CurrentOrders)
	comparisonAOV := orderValue(yc.ComparisonRevenue, yc.ComparisonOrders)
	if rate, ok := GrowthRate(currentAOV, comparisonAOV); ok {
		yc.AverageOrderValueGrowth = &rate
	}

	return yc
}

// anchorYear picks the year the comparison is anchored on: the requested end
// year when given, otherwise the newest year with data.
func anchorYear(records []domain.SalesRecord, params sales.Params) (int, bool) {
	if params.EndYear != nil {
		return *params.EndYear, true
	}
	year, found := 0, false
	for _, r := range records {
		if !found || r.Year > year {
			year, found = r.Year, true
		}
	}
	return year, found
}

func yearSlice(records []domain.SalesRecord, year int) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0)
	for _, r := range records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

func orderValue(revenue float64, orders int) float64 {
	if orders == 0 {
		return 0
	}
	return revenue / float64(orders)
}
