package models

// Product is a menu entry from the products collection. The cart copies
// ID, Name and Price into a LineItem when a product is added.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}
