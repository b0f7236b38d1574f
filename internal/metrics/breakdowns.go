package metrics

import (
	"sort"

	"shopmetrics/pkg/contracts/domain"
)

// UnknownBucket labels revenue whose category or state could not be
// resolved. Those rows are bucketed, never dropped, so breakdown totals
// always add up to total revenue.
const UnknownBucket = "unknown"

// CategoryRevenue is one product category's share of revenue
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Items    int     `json:"items"`
}

// StateRevenue is one customer state's share of revenue
type StateRevenue struct {
	State   string  `json:"state"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// RevenueByCategory left-joins records to products on product_id and sums
// revenue per category. Missing products and blank category names land in
// the "unknown" bucket. Sorted by revenue descending, category name breaking
// ties.
func RevenueByCategory(records []domain.SalesRecord, products []domain.Product) []CategoryRevenue {
	categories := make(map[string]string, len(products))
	for _, p := range products {
		categories[p.ProductID] = p.CategoryName
	}

	type bucket struct {
		revenue float64
		items   int
	}
	buckets := make(map[string]*bucket)

	for _, r := range records {
		name := categories[r.ProductID]
		if name == "" {
			name = UnknownBucket
		}

		b, ok := buckets[name]
		if !ok {
			b = &bucket{}
			buckets[name] = b
		}
		b.revenue += r.Price
		b.items++
	}

	out := make([]CategoryRevenue, 0, len(buckets))
	for name, b := range buckets {
		out = append(out, CategoryRevenue{
			Category: name,
			Revenue:  b.revenue,
			Items:    b.items,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopCategories truncates a category breakdown to its n largest buckets.
// Non-positive n returns the full breakdown.
func TopCategories(categories []CategoryRevenue, n int) []CategoryRevenue {
	if n <= 0 || n >= len(categories) {
		return categories
	}
	return categories[:n]
}

// RevenueByState left-joins records to customers on customer_id and sums
// revenue per state. Records whose customer is missing, or whose state is
// blank, land in the "unknown" bucket. Sorted by revenue descending, state
// breaking ties.
func RevenueByState(records []domain.SalesRecord, customers []domain.Customer) []StateRevenue {
	states := make(map[string]string, len(customers))
	for _, c := range customers {
		states[c.CustomerID] = c.State
	}

	type bucket struct {
		revenue float64
		orders  map[string]struct{}
	}
	buckets := make(map[string]*bucket)

	for _, r := range records {
		state := states[r.CustomerID]
		if state == "" {
			state = UnknownBucket
		}

		b, ok := buckets[state]
		if !ok {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[state] = b
		}
		b.revenue += r.Price
		b.orders[r.OrderID] = struct{}{}
	}

	out := make([]StateRevenue, 0, len(buckets))
	for state, b := range buckets {
		out = append(out, StateRevenue{
			State:   state,
			Revenue: b.revenue,
			Orders:  len(b.orders),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].State < out[j].State
	})
	return out
}
