package orders

import "time"

// OrderStatus represents the lifecycle of a delivery order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"    // Created, waiting for a carrier
	StatusAccepted  OrderStatus = "accepted"   // A fleet partner or courier took it
	StatusAssigned  OrderStatus = "assigned"   // A fleet driver was assigned
	StatusInTransit OrderStatus = "in_transit" // The driver picked it up
	StatusDelivered OrderStatus = "delivered"  // Handed to the recipient
	StatusCancelled OrderStatus = "cancelled"  // Cancelled before delivery
)

// IsValid checks if the status is valid.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusAssigned, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanEdit checks if addresses may still change.
func (s OrderStatus) CanEdit() bool {
	return s == StatusPending || s == StatusAccepted
}

// CanAccept checks if a carrier may take the order.
func (s OrderStatus) CanAccept() bool {
	return s == StatusPending
}

// CanAssign checks if a driver may be (re)assigned.
func (s OrderStatus) CanAssign() bool {
	return s == StatusAccepted || s == StatusAssigned
}

// CanCancel checks if the order may be cancelled.
func (s OrderStatus) CanCancel() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusAssigned
}

// CanDeliver checks if the order may be marked delivered.
func (s OrderStatus) CanDeliver() bool {
	return s == StatusInTransit
}

// CanPrice checks if the price may be set.
func (s OrderStatus) CanPrice() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusAssigned
}

// Order is a delivery request. Empty party IDs mean the party is not set.
type Order struct {
	ID             string      `json:"id"`
	TrackingCode   string      `json:"tracking_code"`
	CustomerID     string      `json:"customer_id,omitempty"`
	PartnerID      string      `json:"partner_id,omitempty"`
	CarrierID      string      `json:"carrier_id,omitempty"`
	DriverID       string      `json:"driver_id,omitempty"`
	Status         OrderStatus `json:"status"`
	PickupAddress  string      `json:"pickup_address"`
	DropoffAddress string      `json:"dropoff_address"`
	PriceCents     *int64      `json:"price_cents,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TrackingView is the redacted order shown to anonymous visitors.
type TrackingView struct {
	TrackingCode string      `json:"tracking_code"`
	Status       OrderStatus `json:"status"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// CreateRequest carries the fields a caller may supply for a new order.
// CustomerID and PartnerID are honoured for administrators only.
type CreateRequest struct {
	PickupAddress  string `json:"pickup_address" validate:"required,max=500"`
	DropoffAddress string `json:"dropoff_address" validate:"required,max=500"`
	CustomerID     string `json:"customer_id,omitempty" validate:"omitempty,max=64"`
	PartnerID      string `json:"partner_id,omitempty" validate:"omitempty,max=64"`
}

// EditRequest updates addresses. Nil fields are left unchanged.
type EditRequest struct {
	PickupAddress  *string `json:"pickup_address,omitempty" validate:"omitempty,min=1,max=500"`
	DropoffAddress *string `json:"dropoff_address,omitempty" validate:"omitempty,min=1,max=500"`
}

// AssignRequest names the driver to assign.
type AssignRequest struct {
	DriverID string `json:"driver_id" validate:"required,max=64"`
}

// PriceRequest sets the order price.
type PriceRequest struct {
	PriceCents int64 `json:"price_cents" validate:"gte=0"`
}

// ListFilter narrows order listings.
type ListFilter struct {
	Scope  Scope
	Status OrderStatus
	Limit  int
	Offset int
}
