package clients

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address string `json:"address,omitempty" validate:"omitempty,max=300"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
}
