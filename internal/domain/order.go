package domain

import (
	"time"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeout, OrderTypeDelivery:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// SystemActor is recorded as the author of the initial history entry.
const SystemActor = "system"

// DefaultActor is used when a staff operation does not name who performed it.
const DefaultActor = "staff"

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode,omitempty"`
}

type Customer struct {
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Email   string   `json:"email,omitempty"`
	Address *Address `json:"address,omitempty"`
}

type Customization struct {
	Name            string  `json:"name"`
	SelectedOption  string  `json:"selectedOption,omitempty"`
	AdditionalPrice float64 `json:"additionalPrice"`
}

// MenuItemRef is the snapshot of a menu item taken when the order was placed.
type MenuItemRef struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name,omitempty"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
}

type LineItem struct {
	MenuItem            MenuItemRef     `json:"menuItem"`
	Quantity            int             `json:"quantity"`
	UnitPrice           float64         `json:"unitPrice"`
	Customizations      []Customization `json:"customizations"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	Subtotal            float64         `json:"subtotal"`
}

type StatusEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updatedBy"`
}

type Order struct {
	ID                    string        `json:"_id"`
	OrderNumber           string        `json:"orderNumber"`
	Customer              Customer      `json:"customer"`
	Items                 []LineItem    `json:"items"`
	Status                Status        `json:"status"`
	OrderType             OrderType     `json:"orderType"`
	TableNumber           *int          `json:"tableNumber,omitempty"`
	Subtotal              float64       `json:"subtotal"`
	Tax                   float64       `json:"tax"`
	Tip                   float64       `json:"tip"`
	Total                 float64       `json:"total"`
	PaymentMethod         PaymentMethod `json:"paymentMethod"`
	PaymentStatus         PaymentStatus `json:"paymentStatus"`
	EstimatedDeliveryTime *time.Time    `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time    `json:"actualDeliveryTime,omitempty"`
	Notes                 string        `json:"notes,omitempty"`
	StatusHistory         []StatusEntry `json:"statusHistory"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// NewOrder is a fully validated creation request, ready to be priced.
type NewOrder struct {
	Customer      Customer
	Items         []NewLineItem
	OrderType     OrderType
	TableNumber   *int
	PaymentMethod PaymentMethod
	Notes         string
	Tip           float64
}

type NewLineItem struct {
	MenuItemID          string
	Quantity            int
	UnitPrice           float64
	Customizations      []Customization
	SpecialInstructions string
}

// Transition moves the order to next, appending a history entry.
// The order is left untouched when the move is not allowed.
func (o *Order) Transition(next Status, updatedBy string, at time.Time) error {
	if err := CheckTransition(o.Status, next); err != nil {
		return err
	}
	if updatedBy == "" {
		updatedBy = DefaultActor
	}

	o.Status = next
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		Status:    next,
		Timestamp: at,
		UpdatedBy: updatedBy,
	})
	if next == StatusDelivered && o.ActualDeliveryTime == nil {
		delivered := at
		o.ActualDeliveryTime = &delivered
	}
	o.UpdatedAt = at
	return nil
}

// Cancel is Transition to cancelled with a dedicated error for fulfilled orders.
func (o *Order) Cancel(updatedBy string, at time.Time) error {
	if o.Status == StatusDelivered {
		return &StateError{From: o.Status, To: StatusCancelled, Reason: "cannot cancel delivered order"}
	}
	return o.Transition(StatusCancelled, updatedBy, at)
}

// Clone returns a deep copy so stored orders are never aliased by callers.
func (o *Order) Clone() *Order {
	c := *o
	if o.Customer.Address != nil {
		addr := *o.Customer.Address
		c.Customer.Address = &addr
	}
	if o.TableNumber != nil {
		n := *o.TableNumber
		c.TableNumber = &n
	}
	if o.EstimatedDeliveryTime != nil {
		t := *o.EstimatedDeliveryTime
		c.EstimatedDeliveryTime = &t
	}
	if o.ActualDeliveryTime != nil {
		t := *o.ActualDeliveryTime
		c.ActualDeliveryTime = &t
	}
	if o.Items != nil {
		c.Items = make([]LineItem, len(o.Items))
		for i, item := range o.Items {
			item.Customizations = append([]Customization(nil), item.Customizations...)
			c.Items[i] = item
		}
	}
	c.StatusHistory = append([]StatusEntry(nil), o.StatusHistory...)
	return &c
}
