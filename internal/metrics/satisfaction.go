package metrics

import (
	"shopmetrics/pkg/contracts/domain"
)

// SpeedBucket is the average review score of orders delivered within a
// fixed day range. MaxDays is zero on the open-ended last bucket.
type SpeedBucket struct {
	Label        string  `json:"label"`
	MinDays      int     `json:"min_days"`
	MaxDays      int     `json:"max_days,omitempty"`
	Reviews      int     `json:"reviews"`
	AverageScore float64 `json:"average_score"`
}

// speedBuckets are the fixed delivery-speed ranges, in days. Same-day
// deliveries count toward the first bucket.
var speedBuckets = []SpeedBucket{
	{Label: "1-3 days", MinDays: 0, MaxDays: 3},
	{Label: "4-7 days", MinDays: 4, MaxDays: 7},
	{Label: "8-14 days", MinDays: 8, MaxDays: 14},
	{Label: "15+ days", MinDays: 15},
}

// DeliverySpeedReviewCorrelation joins records to reviews on order_id and
// averages review scores per delivery-speed bucket. An order with several
// reviews contributes every review score; an order with several items still
// contributes each review once. Records without a delivery speed are
// skipped. Buckets that received no reviews are returned with a zero score
// so the set of buckets is stable for chart consumers.
func DeliverySpeedReviewCorrelation(records []domain.SalesRecord, reviews []domain.Review) []SpeedBucket {
	// Delivery speed per order; all items of one order share the speed.
	speeds := make(map[string]int)
	for _, r := range records {
		if r.DeliverySpeedDays == nil {
			continue
		}
		speeds[r.OrderID] = *r.DeliverySpeedDays
	}

	type acc struct {
		sum   int
		count int
	}
	sums := make([]acc, len(speedBuckets))

	for _, review := range reviews {
		days, ok := speeds[review.OrderID]
		if !ok {
			continue
		}
		idx := bucketIndex(days)
		sums[idx].sum += review.Score
		sums[idx].count++
	}

	out := make([]SpeedBucket, len(speedBuckets))
	for i, b := range speedBuckets {
		out[i] = b
		out[i].Reviews = sums[i].count
		if sums[i].count > 0 {
			out[i].AverageScore = float64(sums[i].sum) / float64(sums[i].count)
		}
	}
	return out
}

func bucketIndex(days int) int {
	for i, b := range speedBuckets {
		if b.MaxDays == 0 || days <= b.MaxDays {
			return i
		}
	}
	return len(speedBuckets) - 1
}

// AverageReviewScore averages the scores of reviews belonging to the given
// records' orders. Each review counts once regardless of how many items its
// order has. Empty input yields zero.
func AverageReviewScore(records []domain.SalesRecord, reviews []domain.Review) float64 {
	orders := make(map[string]struct{}, len(records))
	for _, r := range records {
		orders[r.OrderID] = struct{}{}
	}

	var sum, count int
	for _, review := range reviews {
		if _, ok := orders[review.OrderID]; !ok {
			continue
		}
		sum += review.Score
		count++
	}

	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// AverageDeliverySpeed averages delivery days over delivered orders. Each
// order counts once. Records without a speed are ignored; empty input
// yields zero.
func AverageDeliverySpeed(records []domain.SalesRecord) float64 {
	speeds := make(map[string]int, len(records))
	for _, r := range records {
		if r.DeliverySpeedDays == nil {
			continue
		}
		speeds[r.OrderID] = *r.DeliverySpeedDays
	}

	if len(speeds) == 0 {
		return 0
	}

	var sum int
	for _, days := range speeds {
		sum += days
	}
	return float64(sum) / float64(len(speeds))
}
