package domain

// OrderItem represents a single line item within an order. The composite key
// is (OrderID, OrderItemID); an order may contain many items.
type OrderItem struct {
	OrderID      string  `json:"order_id" csv:"order_id" validate:"required"`
	OrderItemID  int     `json:"order_item_id" csv:"order_item_id" validate:"min=1"`
	ProductID    string  `json:"product_id" csv:"product_id" validate:"required"`
	Price        float64 `json:"price" csv:"price" validate:"min=0"`
	FreightValue float64 `json:"freight_value" csv:"freight_value" validate:"min=0"`
}
