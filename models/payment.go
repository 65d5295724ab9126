package models

// Payment status values
const (
	PaymentStatusSuccess = "Success"
	PaymentStatusFailed  = "Failed"
	PaymentStatusPending = "Pending"
)

// Payer identifies who paid, as shown on the admin payments table.
type Payer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Payment is the persisted transaction record linked 1:1 to an Order.
// Amount always equals the linked order's total; it is copied, not
// recomputed. There is no payment gateway behind this record: it is a
// recorded intent written in the same checkout as its order.
type Payment struct {
	TransactionID string  `json:"transactionId"`
	OrderID       string  `json:"orderId"`
	Payer         Payer   `json:"userDetails"`
	Amount        float64 `json:"totalAmount"`
	Method        string  `json:"paymentMode"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Timestamp     string  `json:"timestamp"`
	Status        string  `json:"status"`
}
