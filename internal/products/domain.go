package products

import "time"

// Product is the inventory record owned by a single user.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Cost        float64   `json:"cost"`
	SalePrice   float64   `json:"sale_price"`
	Quantity    int       `json:"quantity"`
	Supplier    string    `json:"supplier"`
	MinStock    int       `json:"min_stock"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      string    `json:"user_id"`
}

// LowOnStock reports whether the product should appear in low-stock alerts.
// The boundary is inclusive: quantity equal to the minimum counts as low.
func (p Product) LowOnStock() bool {
	return p.Quantity <= p.MinStock
}
