package domain

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	StatusCanceled   OrderStatus = "canceled"
	StatusDelivered  OrderStatus = "delivered"
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusReturned   OrderStatus = "returned"
)

// IsValid reports whether the status is one of the known order states
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusCanceled, StatusDelivered, StatusPending, StatusProcessing, StatusShipped, StatusReturned:
		return true
	}
	return false
}

// Order represents a customer order header as loaded from the orders dataset.
// Timestamps are kept as the raw strings found in the source file; the
// preparation pipeline parses them so unparseable values can be reported per
// row instead of failing the whole load.
type Order struct {
	OrderID            string      `json:"order_id" csv:"order_id" validate:"required"`
	CustomerID         string      `json:"customer_id" csv:"customer_id" validate:"required"`
	Status             OrderStatus `json:"order_status" csv:"order_status"`
	PurchaseTimestamp  string      `json:"order_purchase_timestamp" csv:"order_purchase_timestamp"`
	DeliveredTimestamp string      `json:"order_delivered_customer_date,omitempty" csv:"order_delivered_customer_date"`
}

// Delivered reports whether the order reached the customer
func (o Order) Delivered() bool {
	return o.Status == StatusDelivered
}
