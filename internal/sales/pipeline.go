package sales

import (
	"time"

	"shopmetrics/pkg/contracts/domain"
)

// DefaultTimestampLayout matches the source files' timestamp format
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// dateOnlyLayout is a fallback for columns that carry dates without a time
const dateOnlyLayout = "2006-01-02"

// JoinSales inner-joins order items with their parent orders into the
// denormalized sales set. Items whose order_id has no matching order are
// dropped; the count is returned so callers can log the narrowing instead of
// letting it happen invisibly.
func JoinSales(orders []domain.Order, items []domain.OrderItem) ([]domain.SalesRecord, int) {
	index := make(map[string]domain.Order, len(orders))
	for _, o := range orders {
		index[o.OrderID] = o
	}

	records := make([]domain.SalesRecord, 0, len(items))
	dropped := 0
	for _, item := range items {
		order, ok := index[item.OrderID]
		if !ok {
			dropped++
			continue
		}

		records = append(records, domain.SalesRecord{
			OrderID:            item.OrderID,
			OrderItemID:        item.OrderItemID,
			ProductID:          item.ProductID,
			Price:              item.Price,
			FreightValue:       item.FreightValue,
			CustomerID:         order.CustomerID,
			Status:             order.Status,
			PurchaseTimestamp:  order.PurchaseTimestamp,
			DeliveredTimestamp: order.DeliveredTimestamp,
		})
	}

	return records, dropped
}

// AddTemporalFields parses each record's purchase timestamp and derives the
// year and month used for period grouping and range filtering. Unparseable
// timestamps are collected into a RowErrors value covering every bad row;
// the input slice is never mutated.
func AddTemporalFields(records []domain.SalesRecord, layout string) ([]domain.SalesRecord, error) {
	out := make([]domain.SalesRecord, len(records))
	var rowErrs RowErrors

	for i, r := range records {
		out[i] = r

		ts, err := parseTimestamp(layout, r.PurchaseTimestamp)
		if err != nil {
			rowErrs = append(rowErrs, RowError{
				OrderID: r.OrderID,
				Field:   "order_purchase_timestamp",
				Value:   r.PurchaseTimestamp,
				Err:     err,
			})
			continue
		}

		out[i].PurchasedAt = ts
		out[i].Year = ts.Year()
		out[i].Month = int(ts.Month())
	}

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}
	return out, nil
}

// FilterDelivered keeps only the records of delivered orders
func FilterDelivered(records []domain.SalesRecord) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if r.Delivered() {
			out = append(out, r)
		}
	}
	return out
}

// FilterDateRange keeps records whose (year, month) falls inside the
// inclusive range described by params. Open bounds pass everything on that
// side. Filtering an already-filtered set by the same params returns an
// equal set.
func FilterDateRange(records []domain.SalesRecord, params Params) []domain.SalesRecord {
	if !params.Bounded() {
		out := make([]domain.SalesRecord, len(records))
		copy(out, records)
		return out
	}

	start, startSet := params.startKey()
	end, endSet := params.endKey()

	out := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		key := periodKey(r.Year, r.Month)
		if startSet && key < start {
			continue
		}
		if endSet && key > end {
			continue
		}
		out = append(out, r)
	}
	return out
}

// AddDeliverySpeed derives whole days between purchase and delivery. Records
// without a delivered timestamp keep a nil speed rather than zero, since a
// zero would look like same-day delivery. A present but unparseable
// delivered timestamp is a row error.
func AddDeliverySpeed(records []domain.SalesRecord, layout string) ([]domain.SalesRecord, error) {
	out := make([]domain.SalesRecord, len(records))
	var rowErrs RowErrors

	for i, r := range records {
		out[i] = r

		if r.DeliveredTimestamp == "" {
			continue
		}

		delivered, err := parseTimestamp(layout, r.DeliveredTimestamp)
		if err != nil {
			rowErrs = append(rowErrs, RowError{
				OrderID: r.OrderID,
				Field:   "order_delivered_customer_date",
				Value:   r.DeliveredTimestamp,
				Err:     err,
			})
			continue
		}

		days := int(delivered.Sub(r.PurchasedAt).Hours() / 24)

		out[i].DeliveredAt = &delivered
		out[i].DeliverySpeedDays = &days
	}

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}
	return out, nil
}

// parseTimestamp tries the configured layout first and falls back to a bare
// date, which some source columns use.
func parseTimestamp(layout, value string) (time.Time, error) {
	ts, err := time.Parse(layout, value)
	if err == nil {
		return ts, nil
	}

	if fallback, ferr := time.Parse(dateOnlyLayout, value); ferr == nil {
		return fallback, nil
	}
	return time.Time{}, err
}
