package products

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=100"`
	Subcategory string  `json:"subcategory,omitempty" validate:"omitempty,max=100"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	SalePrice   float64 `json:"sale_price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Supplier    string  `json:"supplier,omitempty" validate:"omitempty,max=200"`
	MinStock    int     `json:"min_stock" validate:"gte=0"`
	Image       string  `json:"image,omitempty" validate:"omitempty,startswith=data:image/"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Subcategory *string  `json:"subcategory,omitempty" validate:"omitempty,max=100"`
	Cost        *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	SalePrice   *float64 `json:"sale_price,omitempty" validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Supplier    *string  `json:"supplier,omitempty" validate:"omitempty,max=200"`
	MinStock    *int     `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,startswith=data:image/"`
}
