package orders

import (
	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// OwnerField names the order column an own-scope is matched on.
type OwnerField string

const (
	OwnerCustomer OwnerField = "customer_id"
	OwnerPartner  OwnerField = "partner_id"
	OwnerDriver   OwnerField = "driver_id"
)

// Scope restricts which orders an actor may see.
type Scope struct {
	All     bool
	Field   OwnerField
	OwnerID string
}

// ScopeFor derives the visible order set from the actor's capabilities.
// view_all_orders wins over view_own_orders. Actors with neither get
// shared.ErrForbidden.
func ScopeFor(a *access.Actor) (Scope, error) {
	if access.HasCapability(a, access.CapViewAllOrders) {
		return Scope{All: true}, nil
	}
	if !access.HasCapability(a, access.CapViewOwnOrders) {
		return Scope{}, shared.ErrForbidden
	}
	switch {
	case access.IsPartner(a):
		return Scope{Field: OwnerPartner, OwnerID: a.ID}, nil
	case access.IsDriver(a):
		return Scope{Field: OwnerDriver, OwnerID: a.ID}, nil
	default:
		return Scope{Field: OwnerCustomer, OwnerID: a.ID}, nil
	}
}

// Includes reports whether the order falls inside the scope.
func (s Scope) Includes(o Order) bool {
	if s.All {
		return true
	}
	if s.OwnerID == "" {
		return false
	}
	switch s.Field {
	case OwnerCustomer:
		return o.CustomerID == s.OwnerID
	case OwnerPartner:
		return o.PartnerID == s.OwnerID
	case OwnerDriver:
		return o.DriverID == s.OwnerID
	default:
		return false
	}
}

// involved reports whether the actor is a party to the order. Administrators
// are party to every order.
func involved(a *access.Actor, o Order) bool {
	if access.IsAdministrator(a) {
		return true
	}
	if a == nil || a.ID == "" {
		return false
	}
	switch a.ID {
	case o.CustomerID, o.PartnerID, o.CarrierID, o.DriverID:
		return true
	default:
		return false
	}
}
