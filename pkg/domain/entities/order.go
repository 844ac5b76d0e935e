package entities

import (
	"fmt"
	"time"
)

// OrderID identifies a customer order
type OrderID string

// Order represents demand for cut sheets. Weight is the total tonnage of
// the order and is derived from the sheet dimensions at import time.
type Order struct {
	ID               OrderID     `json:"id"`
	Product          Product     `json:"product"`
	Width            float64     `json:"width"`
	Length           float64     `json:"length"`
	Thickness        float64     `json:"thickness"`
	Quantity         int         `json:"quantity"`
	Grade            string      `json:"grade"`
	CoilPacketWeight float64     `json:"coil_packet_weight"`
	Weight           float64     `json:"weight"`
	Priority         int         `json:"priority"`
	DueDate          time.Time   `json:"due_date"`
	Status           OrderStatus `json:"status"`
}

// NewOrder creates a validated Order
func NewOrder(
	id OrderID,
	product Product,
	width, length, thickness float64,
	quantity int,
	grade string,
	weight float64,
	priority int,
	dueDate time.Time,
) (*Order, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %g", width)
	}
	if length <= 0 {
		return nil, fmt.Errorf("length must be positive, got %g", length)
	}
	if thickness <= 0 {
		return nil, fmt.Errorf("thickness must be positive, got %g", thickness)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	if grade == "" {
		return nil, fmt.Errorf("grade cannot be empty")
	}
	if weight < 0 {
		return nil, fmt.Errorf("weight cannot be negative, got %g", weight)
	}

	return &Order{
		ID:        id,
		Product:   product,
		Width:     width,
		Length:    length,
		Thickness: thickness,
		Quantity:  quantity,
		Grade:     grade,
		Weight:    weight,
		Priority:  priority,
		DueDate:   dueDate,
		Status:    OrderPending,
	}, nil
}
