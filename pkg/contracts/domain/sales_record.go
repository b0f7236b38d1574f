package domain

import "time"

// SalesRecord is the denormalized analysis row: one order item joined with
// its parent order's status, customer and timestamps. The derived fields
// (PurchasedAt, Year, Month, DeliveredAt, DeliverySpeedDays) are populated by
// the preparation pipeline, not at load time.
type SalesRecord struct {
	OrderID      string  `json:"order_id"`
	OrderItemID  int     `json:"order_item_id"`
	ProductID    string  `json:"product_id"`
	Price        float64 `json:"price"`
	FreightValue float64 `json:"freight_value"`

	CustomerID         string      `json:"customer_id"`
	Status             OrderStatus `json:"order_status"`
	PurchaseTimestamp  string      `json:"order_purchase_timestamp"`
	DeliveredTimestamp string      `json:"order_delivered_customer_date,omitempty"`

	PurchasedAt time.Time `json:"purchased_at"`
	Year        int       `json:"year,omitempty"`
	Month       int       `json:"month,omitempty"`

	// DeliveredAt and DeliverySpeedDays stay nil until the order is
	// delivered; delivery speed is undefined for every other status.
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	DeliverySpeedDays *int       `json:"delivery_speed_days,omitempty"`
}

// Delivered reports whether the record belongs to a delivered order
func (r SalesRecord) Delivered() bool {
	return r.Status == StatusDelivered
}
