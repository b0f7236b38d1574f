package domain

// Product represents a catalog product. CategoryName may be empty for
// uncategorized products; metric breakdowns map those to an explicit
// "unknown" bucket rather than dropping them.
type Product struct {
	ProductID         string `json:"product_id" csv:"product_id" validate:"required"`
	CategoryName      string `json:"product_category_name,omitempty" csv:"product_category_name"`
	NameLength        int    `json:"product_name_length" csv:"product_name_length"`
	DescriptionLength int    `json:"product_description_length" csv:"product_description_length"`
}
