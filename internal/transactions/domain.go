package transactions

import "time"

// Type enumerates supported transaction kinds.
type Type string

const (
	// TypeSale decrements the referenced product's stock.
	TypeSale Type = "sale"
	// TypePurchase increments the referenced product's stock.
	TypePurchase Type = "purchase"
	// TypeAdjustment sets the referenced product's stock to the given quantity.
	TypeAdjustment Type = "adjustment"
)

// PaymentStatus enumerates settlement states for sales.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// Transaction records a single sale, purchase or stock adjustment. The
// collection is kept most-recent-first.
type Transaction struct {
	ID            int64         `json:"id"`
	Type          Type          `json:"type"`
	ProductID     int64         `json:"product_id"`
	ClientID      int64         `json:"client_id,omitempty"`
	Quantity      int           `json:"quantity"`
	UnitPrice     float64       `json:"unit_price"`
	Total         float64       `json:"total"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Description   string        `json:"description,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UserID        string        `json:"user_id"`
}
