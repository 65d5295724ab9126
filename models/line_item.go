package models

// LineItem is one product line inside a cart. A cart holds at most one
// line per product id; repeated adds bump the quantity instead.
type LineItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// LineTotal returns price * quantity for this line.
func (li LineItem) LineTotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}
