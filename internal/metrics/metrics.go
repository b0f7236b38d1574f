// Package metrics computes descriptive business metrics over a prepared
// sales dataset. Every function is pure: inputs are never mutated, identical
// inputs yield identical outputs, and empty inputs return zero values rather
// than failing, so dashboards stay renderable on empty filtered ranges.
package metrics

import (
	"fmt"
	"sort"

	"shopmetrics/pkg/contracts/domain"
)

// Granularity selects the grouping key for period breakdowns
type Granularity string

const (
	GranularityYear  Granularity = "year"
	GranularityMonth Granularity = "month"
)

// IsValid reports whether the granularity is a supported grouping
func (g Granularity) IsValid() bool {
	return g == GranularityYear || g == GranularityMonth
}

// PeriodRevenue is one period's aggregate in a by-period breakdown.
// Month is zero when the granularity is yearly.
type PeriodRevenue struct {
	Year              int     `json:"year"`
	Month             int     `json:"month,omitempty"`
	Revenue           float64 `json:"revenue"`
	Orders            int     `json:"orders"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// Label renders the period as "2023" or "2023-01" depending on granularity
func (p PeriodRevenue) Label() string {
	if p.Month == 0 {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// TotalRevenue sums item prices over all records. Freight is tracked
// separately and not part of revenue.
func TotalRevenue(records []domain.SalesRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Price
	}
	return total
}

// TotalFreight sums freight values over all records
func TotalFreight(records []domain.SalesRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.FreightValue
	}
	return total
}

// TotalOrders counts distinct orders. Several items of one order count once.
func TotalOrders(records []domain.SalesRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.OrderID] = struct{}{}
	}
	return len(seen)
}

// AverageOrderValue is total revenue divided by distinct orders.
// Zero orders yield zero, not a division failure.
func AverageOrderValue(records []domain.SalesRecord) float64 {
	orders := TotalOrders(records)
	if orders == 0 {
		return 0
	}
	return TotalRevenue(records) / float64(orders)
}

// RevenueByPeriod groups revenue, order counts and AOV by year or by
// year-month, sorted ascending by period. Cross-year ranges stay ordered
// because the sort key folds year and month into one axis.
func RevenueByPeriod(records []domain.SalesRecord, granularity Granularity) []PeriodRevenue {
	type bucket struct {
		revenue float64
		orders  map[string]struct{}
	}

	buckets := make(map[int]*bucket)
	for _, r := range records {
		key := r.Year * 12
		if granularity == GranularityMonth {
			key += r.Month - 1
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[key] = b
		}
		b.revenue += r.Price
		b.orders[r.OrderID] = struct{}{}
	}

	keys := make([]int, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	out := make([]PeriodRevenue, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]

		p := PeriodRevenue{
			Year:    key / 12,
			Revenue: b.revenue,
			Orders:  len(b.orders),
		}
		if granularity == GranularityMonth {
			p.Month = key%12 + 1
		}
		if p.Orders > 0 {
			p.AverageOrderValue = b.revenue / float64(p.Orders)
		}
		out = append(out, p)
	}
	return out
}

// GrowthRate returns (current - previous) / previous. The boolean is false
// when previous is zero, where the rate is undefined; callers render that as
// a missing value instead of a division error.
func GrowthRate(current, previous float64) (float64, bool) {
	if previous == 0 {
		return 0, false
	}
	return (current - previous) / previous, true
}
