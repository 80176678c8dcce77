package domain

type CreateOrderRequest struct {
	Customer      CustomerRequest `json:"customer"`
	Items         []ItemRequest   `json:"items" validate:"required,min=1,dive"`
	OrderType     string          `json:"orderType" validate:"required,oneof=dine_in takeout delivery"`
	TableNumber   *int            `json:"tableNumber"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=cash card online"`
	Notes         string          `json:"notes" validate:"max=500"`
	Tip           float64         `json:"tip" validate:"min=0"`
}

type CustomerRequest struct {
	Name    string   `json:"name" validate:"required,max=100"`
	Phone   string   `json:"phone" validate:"required,inphone"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Address *Address `json:"address"`
}

type ItemRequest struct {
	MenuItem            string          `json:"menuItem" validate:"required"`
	Quantity            int             `json:"quantity" validate:"min=1"`
	UnitPrice           float64         `json:"unitPrice" validate:"min=0"`
	Customizations      []Customization `json:"customizations"`
	SpecialInstructions string          `json:"specialInstructions" validate:"max=200"`
}

type UpdateStatusRequest struct {
	Status    string `json:"status" validate:"required"`
	UpdatedBy string `json:"updatedBy" validate:"omitempty,max=50"`
}

type CancelOrderRequest struct {
	UpdatedBy string `json:"updatedBy" validate:"omitempty,max=50"`
}
