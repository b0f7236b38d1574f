package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmetrics/internal/config"
	"shopmetrics/internal/dataset"
	"shopmetrics/pkg/contracts/domain"
)

func intPtr(v int) *int {
	return &v
}

func record(orderID string, year, month int, status domain.OrderStatus) domain.SalesRecord {
	return domain.SalesRecord{
		OrderID: orderID,
		Status:  status,
		Year:    year,
		Month:   month,
	}
}

func TestJoinSales(t *testing.T) {
	orders := []domain.Order{
		{OrderID: "o1", CustomerID: "c1", Status: domain.StatusDelivered, PurchaseTimestamp: "2023-01-15 10:30:00", DeliveredTimestamp: "2023-01-20 14:00:00"},
		{OrderID: "o2", CustomerID: "c2", Status: domain.StatusShipped, PurchaseTimestamp: "2023-02-01 09:00:00"},
	}
	items := []domain.OrderItem{
		{OrderID: "o1", OrderItemID: 1, ProductID: "p1", Price: 100, FreightValue: 10},
		{OrderID: "o1", OrderItemID: 2, ProductID: "p2", Price: 50, FreightValue: 5},
		{OrderID: "o2", OrderItemID: 1, ProductID: "p1", Price: 200, FreightValue: 15},
		{OrderID: "missing", OrderItemID: 1, ProductID: "p3", Price: 999, FreightValue: 1},
	}

	records, dropped := JoinSales(orders, items)

	assert.Equal(t, 1, dropped)
	require.Len(t, records, 3)

	assert.Equal(t, "c1", records[0].CustomerID)
	assert.Equal(t, domain.StatusDelivered, records[0].Status)
	assert.Equal(t, "2023-01-15 10:30:00", records[0].PurchaseTimestamp)
	assert.Equal(t, 100.0, records[0].Price)
	assert.Equal(t, "c2", records[2].CustomerID)
}

func TestAddTemporalFields(t *testing.T) {
	records := []domain.SalesRecord{
		{OrderID: "o1", PurchaseTimestamp: "2023-01-15 10:30:00"},
		{OrderID: "o2", PurchaseTimestamp: "2022-11-03"},
	}

	out, err := AddTemporalFields(records, DefaultTimestampLayout)
	require.NoError(t, err)

	assert.Equal(t, 2023, out[0].Year)
	assert.Equal(t, 1, out[0].Month)
	assert.Equal(t, 2022, out[1].Year)
	assert.Equal(t, 11, out[1].Month)

	// Input untouched
	assert.Zero(t, records[0].Year)
}

func TestAddTemporalFieldsReportsBadRows(t *testing.T) {
	records := []domain.SalesRecord{
		{OrderID: "o1", PurchaseTimestamp: "2023-01-15 10:30:00"},
		{OrderID: "o2", PurchaseTimestamp: "not-a-date"},
		{OrderID: "o3", PurchaseTimestamp: "also bad"},
	}

	out, err := AddTemporalFields(records, DefaultTimestampLayout)
	assert.Nil(t, out)
	require.Error(t, err)

	var rowErrs RowErrors
	require.True(t, errors.As(err, &rowErrs))
	require.Len(t, rowErrs, 2)
	assert.Equal(t, "o2", rowErrs[0].OrderID)
	assert.Equal(t, "order_purchase_timestamp", rowErrs[0].Field)
}

func TestFilterDelivered(t *testing.T) {
	records := []domain.SalesRecord{
		record("o1", 2023, 1, domain.StatusDelivered),
		record("o2", 2023, 1, domain.StatusCanceled),
		record("o3", 2023, 2, domain.StatusShipped),
		record("o4", 2023, 2, domain.StatusDelivered),
	}

	out := FilterDelivered(records)

	require.Len(t, out, 2)
	assert.Equal(t, "o1", out[0].OrderID)
	assert.Equal(t, "o4", out[1].OrderID)
	assert.Len(t, records, 4)
}

func TestFilterDateRangeCrossYear(t *testing.T) {
	// Spans October 2022 through March 2023
	records := []domain.SalesRecord{
		record("oct22", 2022, 10, domain.StatusDelivered),
		record("nov22", 2022, 11, domain.StatusDelivered),
		record("dec22", 2022, 12, domain.StatusDelivered),
		record("jan23", 2023, 1, domain.StatusDelivered),
		record("feb23", 2023, 2, domain.StatusDelivered),
		record("mar23", 2023, 3, domain.StatusDelivered),
	}

	params := Params{
		StartYear:  intPtr(2022),
		StartMonth: intPtr(11),
		EndYear:    intPtr(2023),
		EndMonth:   intPtr(2),
	}

	out := FilterDateRange(records, params)

	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.OrderID
	}
	// January 2023 must survive even though 1 < 11 as a bare month
	assert.Equal(t, []string{"nov22", "dec22", "jan23", "feb23"}, ids)
}

func TestFilterDateRangeIdempotent(t *testing.T) {
	records := []domain.SalesRecord{
		record("o1", 2022, 12, domain.StatusDelivered),
		record("o2", 2023, 1, domain.StatusDelivered),
		record("o3", 2023, 6, domain.StatusDelivered),
	}
	params := Params{
		StartYear: intPtr(2022),
		EndYear:   intPtr(2023),
		EndMonth:  intPtr(3),
	}

	once := FilterDateRange(records, params)
	twice := FilterDateRange(once, params)

	assert.Equal(t, once, twice)
}

func TestFilterDateRangeBounds(t *testing.T) {
	records := []domain.SalesRecord{
		record("o1", 2022, 5, domain.StatusDelivered),
		record("o2", 2023, 1, domain.StatusDelivered),
		record("o3", 2023, 12, domain.StatusDelivered),
	}

	tests := []struct {
		name   string
		params Params
		want   []string
	}{
		{
			name:   "unbounded keeps everything",
			params: Params{},
			want:   []string{"o1", "o2", "o3"},
		},
		{
			name:   "year only covers whole year",
			params: Params{StartYear: intPtr(2023), EndYear: intPtr(2023)},
			want:   []string{"o2", "o3"},
		},
		{
			name:   "open start",
			params: Params{EndYear: intPtr(2022)},
			want:   []string{"o1"},
		},
		{
			name:   "open end",
			params: Params{StartYear: intPtr(2023), StartMonth: intPtr(2)},
			want:   []string{"o3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FilterDateRange(records, tt.params)
			ids := make([]string, len(out))
			for i, r := range out {
				ids[i] = r.OrderID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestAddDeliverySpeed(t *testing.T) {
	base, err := AddTemporalFields([]domain.SalesRecord{
		{OrderID: "o1", Status: domain.StatusDelivered, PurchaseTimestamp: "2023-01-15 10:30:00", DeliveredTimestamp: "2023-01-20 14:00:00"},
		{OrderID: "o2", Status: domain.StatusShipped, PurchaseTimestamp: "2023-02-01 09:00:00"},
	}, DefaultTimestampLayout)
	require.NoError(t, err)

	out, err := AddDeliverySpeed(base, DefaultTimestampLayout)
	require.NoError(t, err)

	require.NotNil(t, out[0].DeliverySpeedDays)
	assert.Equal(t, 5, *out[0].DeliverySpeedDays)

	// Undelivered rows keep a nil speed, never zero
	assert.Nil(t, out[1].DeliverySpeedDays)
	assert.Nil(t, out[1].DeliveredAt)
}

func TestAddDeliverySpeedReportsBadRows(t *testing.T) {
	records := []domain.SalesRecord{
		{OrderID: "o1", DeliveredTimestamp: "garbage"},
	}

	out, err := AddDeliverySpeed(records, DefaultTimestampLayout)
	assert.Nil(t, out)

	var rowErrs RowErrors
	require.True(t, errors.As(err, &rowErrs))
	assert.Equal(t, "order_delivered_customer_date", rowErrs[0].Field)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{name: "empty is valid", params: Params{}},
		{
			name:   "full range",
			params: Params{StartYear: intPtr(2022), StartMonth: intPtr(11), EndYear: intPtr(2023), EndMonth: intPtr(2)},
		},
		{
			name:    "month without year",
			params:  Params{StartMonth: intPtr(3)},
			wantErr: true,
		},
		{
			name:    "month out of range",
			params:  Params{StartYear: intPtr(2023), StartMonth: intPtr(13)},
			wantErr: true,
		},
		{
			name:    "start after end",
			params:  Params{StartYear: intPtr(2023), StartMonth: intPtr(2), EndYear: intPtr(2022), EndMonth: intPtr(11)},
			wantErr: true,
		},
		{
			name:   "comparison year",
			params: Params{EndYear: intPtr(2023), ComparisonYear: intPtr(2022)},
		},
		{
			name:    "comparison year out of range",
			params:  Params{ComparisonYear: intPtr(1999)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPreparerPrepare(t *testing.T) {
	tables := &dataset.Tables{
		Orders: []domain.Order{
			{OrderID: "o1", CustomerID: "c1", Status: domain.StatusDelivered, PurchaseTimestamp: "2022-11-10 08:00:00", DeliveredTimestamp: "2022-11-18 12:00:00"},
			{OrderID: "o2", CustomerID: "c2", Status: domain.StatusDelivered, PurchaseTimestamp: "2023-01-05 15:00:00", DeliveredTimestamp: "2023-01-09 10:00:00"},
			{OrderID: "o3", CustomerID: "c3", Status: domain.StatusCanceled, PurchaseTimestamp: "2023-01-06 15:00:00"},
			{OrderID: "o4", CustomerID: "c4", Status: domain.StatusDelivered, PurchaseTimestamp: "2023-05-01 15:00:00", DeliveredTimestamp: "2023-05-03 10:00:00"},
		},
		OrderItems: []domain.OrderItem{
			{OrderID: "o1", OrderItemID: 1, ProductID: "p1", Price: 100},
			{OrderID: "o2", OrderItemID: 1, ProductID: "p2", Price: 200},
			{OrderID: "o3", OrderItemID: 1, ProductID: "p1", Price: 300},
			{OrderID: "o4", OrderItemID: 1, ProductID: "p2", Price: 400},
			{OrderID: "orphan", OrderItemID: 1, ProductID: "p1", Price: 500},
		},
		Products:  []domain.Product{{ProductID: "p1", CategoryName: "toys"}},
		Customers: []domain.Customer{{CustomerID: "c1", State: "SP"}},
		Reviews:   []domain.Review{{ReviewID: "r1", OrderID: "o1", Score: 4}},
	}

	preparer := NewPreparer(config.AnalyticsConfig{}, nil)
	params := Params{
		StartYear:  intPtr(2022),
		StartMonth: intPtr(11),
		EndYear:    intPtr(2023),
		EndMonth:   intPtr(2),
	}

	ds, dropped, err := preparer.Prepare(context.Background(), tables, params)
	require.NoError(t, err)

	// o1 and o2 survive: o3 is canceled, o4 is out of range, orphan unmatched
	require.Len(t, ds.Sales, 2)
	assert.Equal(t, "o1", ds.Sales[0].OrderID)
	assert.Equal(t, "o2", ds.Sales[1].OrderID)

	require.NotNil(t, ds.Sales[0].DeliverySpeedDays)
	assert.Equal(t, 8, *ds.Sales[0].DeliverySpeedDays)

	assert.Equal(t, 1, dropped.UnmatchedItems)
	assert.Equal(t, 1, dropped.NotDelivered)
	assert.Equal(t, 1, dropped.OutOfRange)

	// Reference tables pass through untouched
	assert.Equal(t, tables.Products, ds.Products)
	assert.Equal(t, tables.Customers, ds.Customers)
	assert.Equal(t, tables.Reviews, ds.Reviews)
}

func TestPreparerPrepareInvalidParams(t *testing.T) {
	preparer := NewPreparer(config.AnalyticsConfig{}, nil)

	_, _, err := preparer.Prepare(context.Background(), &dataset.Tables{}, Params{
		StartMonth: intPtr(5),
	})
	assert.Error(t, err)
}
