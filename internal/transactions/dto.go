package transactions

type CreateTransactionRequest struct {
	Type          Type    `json:"type" validate:"required,oneof=sale purchase adjustment"`
	ProductID     int64   `json:"product_id" validate:"required,gt=0"`
	ClientID      int64   `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
	UnitPrice     float64 `json:"unit_price" validate:"gte=0"`
	PaymentStatus string  `json:"payment_status" validate:"omitempty,oneof=paid pending"`
	Description   string  `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdateTransactionRequest struct {
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=paid pending"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
