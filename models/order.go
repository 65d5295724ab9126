package models

// Order status values
const (
	OrderStatusPlaced    = "Placed"
	OrderStatusPreparing = "Preparing"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// GuestUserID is recorded on orders placed without an authenticated user.
const GuestUserID = "guest"

// Contact holds the checkout contact and delivery details.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// AmountBreakdown is the monetary breakdown of a priced cart. Total is
// recomputed from the source values, never stored independently of them,
// so displayed and charged amounts cannot drift apart.
type AmountBreakdown struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

// Order is the persisted record of a completed checkout. Items and Amounts
// are a snapshot taken at checkout time, not a live reference to the cart,
// and are immutable once written; only Status and AssignedTo change later
// through the kitchen workflow.
type Order struct {
	OrderID       string          `json:"orderId"`
	UserID        string          `json:"userId"`
	Contact       Contact         `json:"userDetails"`
	Items         []LineItem      `json:"items"`
	Amounts       AmountBreakdown `json:"amountHighlights"`
	TotalAmount   float64         `json:"totalAmount"`
	Status        string          `json:"status"`
	OrderDate     string          `json:"orderDate"`
	PaymentMethod string          `json:"paymentMethod"`
	AssignedTo    string          `json:"assignedTo,omitempty"`
}
