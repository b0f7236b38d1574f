package domain

// Review represents a customer review attached to an order. An order may
// carry zero or more reviews, so OrderID is not unique across reviews.
type Review struct {
	ReviewID     string `json:"review_id" csv:"review_id" validate:"required"`
	OrderID      string `json:"order_id" csv:"order_id" validate:"required"`
	Score        int    `json:"review_score" csv:"review_score" validate:"min=1,max=5"`
	CreationDate string `json:"review_creation_date" csv:"review_creation_date"`
}
