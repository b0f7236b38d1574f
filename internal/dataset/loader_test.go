package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmetrics/internal/config"
	apperrors "shopmetrics/internal/errors"
	"shopmetrics/pkg/contracts/domain"
)

const (
	ordersCSV = `order_id,customer_id,order_status,order_purchase_timestamp,order_approved_at,order_delivered_customer_date
o1,c1,delivered,2023-01-15 10:30:00,2023-01-15 11:00:00,2023-01-20 14:00:00
o2,c2,shipped,2023-02-01 09:00:00,2023-02-01 09:30:00,
o3,c3,canceled,2023-02-10 16:45:00,,
`
	orderItemsCSV = `order_id,order_item_id,product_id,seller_id,price,freight_value
o1,1,p1,s1,100.50,10.00
o1,2,p2,s1,49.90,5.25
o2,1,p1,s2,200.00,15.75
`
	productsCSV = `product_id,product_category_name,product_name_length,product_description_length
p1,electronics,40,250
p2,,52.0,
`
	customersCSV = `customer_id,customer_state,customer_city
c1,SP,sao paulo
c2,RJ,rio de janeiro
c3,MG,belo horizonte
`
	reviewsCSV = `review_id,order_id,review_score,review_comment_title,review_creation_date
r1,o1,5,,2023-01-21 00:00:00
r2,o2,3,late,2023-02-08 00:00:00
`
)

func writeDataset(t *testing.T, overrides map[string]string) *config.Paths {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		config.OrdersFile:     ordersCSV,
		config.OrderItemsFile: orderItemsCSV,
		config.ProductsFile:   productsCSV,
		config.CustomersFile:  customersCSV,
		config.ReviewsFile:    reviewsCSV,
	}
	for name, content := range overrides {
		files[name] = content
	}

	for name, content := range files {
		if content == "" {
			continue
		}
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}

	return &config.Paths{
		WorkingDir: dir,
		DataDir:    dir,
		LogsDir:    dir,
		ExportsDir: dir,
	}
}

func TestLoaderLoad(t *testing.T) {
	paths := writeDataset(t, nil)
	loader := NewLoader(paths, nil)

	tables, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, tables.Orders, 3)
	require.Len(t, tables.OrderItems, 3)
	require.Len(t, tables.Products, 2)
	require.Len(t, tables.Customers, 3)
	require.Len(t, tables.Reviews, 2)

	assert.Equal(t, domain.Order{
		OrderID:            "o1",
		CustomerID:         "c1",
		Status:             domain.StatusDelivered,
		PurchaseTimestamp:  "2023-01-15 10:30:00",
		DeliveredTimestamp: "2023-01-20 14:00:00",
	}, tables.Orders[0])

	// Undelivered orders carry an empty delivered timestamp
	assert.Equal(t, domain.StatusShipped, tables.Orders[1].Status)
	assert.Empty(t, tables.Orders[1].DeliveredTimestamp)

	assert.Equal(t, domain.OrderItem{
		OrderID:      "o1",
		OrderItemID:  1,
		ProductID:    "p1",
		Price:        100.50,
		FreightValue: 10.00,
	}, tables.OrderItems[0])

	// Blank category and float-serialized length fields
	assert.Equal(t, domain.Product{
		ProductID:         "p2",
		CategoryName:      "",
		NameLength:        52,
		DescriptionLength: 0,
	}, tables.Products[1])

	assert.Equal(t, 5, tables.Reviews[0].Score)
}

func TestLoaderLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		errType   apperrors.ErrorType
	}{
		{
			name: "missing file",
			overrides: map[string]string{
				config.OrdersFile: "",
			},
			errType: apperrors.ErrTypeStorage,
		},
		{
			name: "missing required column",
			overrides: map[string]string{
				config.OrdersFile: "order_id,customer_id,order_purchase_timestamp\no1,c1,2023-01-15 10:30:00\n",
			},
			errType: apperrors.ErrTypeParsing,
		},
		{
			name: "unknown order status",
			overrides: map[string]string{
				config.OrdersFile: "order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date\no1,c1,teleported,2023-01-15 10:30:00,\n",
			},
			errType: apperrors.ErrTypeParsing,
		},
		{
			name: "malformed price",
			overrides: map[string]string{
				config.OrderItemsFile: "order_id,order_item_id,product_id,price,freight_value\no1,1,p1,not-a-number,5.00\n",
			},
			errType: apperrors.ErrTypeParsing,
		},
		{
			name: "review score out of range",
			overrides: map[string]string{
				config.ReviewsFile: "review_id,order_id,review_score,review_creation_date\nr1,o1,9,2023-01-21 00:00:00\n",
			},
			errType: apperrors.ErrTypeParsing,
		},
		{
			name: "ragged row",
			overrides: map[string]string{
				config.CustomersFile: "customer_id,customer_state,customer_city\nc1,SP\n",
			},
			errType: apperrors.ErrTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := writeDataset(t, tt.overrides)
			loader := NewLoader(paths, nil)

			tables, err := loader.Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, tables)
			assert.True(t, apperrors.IsType(err, tt.errType), "expected %s, got %v", tt.errType, err)
		})
	}
}

func TestLoaderLoadCanceledContext(t *testing.T) {
	paths := writeDataset(t, nil)
	loader := NewLoader(paths, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx)
	require.Error(t, err)
}
