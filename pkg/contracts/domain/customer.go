package domain

// Customer represents a customer with their geographic location
type Customer struct {
	CustomerID string `json:"customer_id" csv:"customer_id" validate:"required"`
	State      string `json:"customer_state" csv:"customer_state"`
	City       string `json:"customer_city" csv:"customer_city"`
}
