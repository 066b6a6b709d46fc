// Package fleet exposes the driver and partner directory behind the
// dashboard's drivers, partners, partner profile and courier option views.
package fleet

import (
	"fmt"
	"time"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// Driver is a delivery driver attached to an owner. Fleet drivers are owned
// by their fleet partner; independent couriers own themselves.
type Driver struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Partner is a partner profile as listed to administrators.
type Partner struct {
	ID             string                `json:"id"`
	DisplayName    string                `json:"display_name"`
	HasOwnFleet    bool                  `json:"has_own_fleet"`
	PartnerSubtype access.PartnerSubtype `json:"partner_subtype,omitempty"`
	Status         access.Status         `json:"status"`
	DriverCount    int                   `json:"driver_count"`
}

// PartnerProfile is the signed-in partner's own view of their account.
type PartnerProfile struct {
	Partner
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// CourierOption is the redacted courier listing offered to customers and
// business partners.
type CourierOption struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// AddDriverRequest registers a driver. OwnerID is honoured for
// administrators only.
type AddDriverRequest struct {
	ID      string  `json:"id" validate:"required,max=64"`
	Name    string  `json:"name" validate:"required,max=200"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	OwnerID string  `json:"owner_id,omitempty" validate:"omitempty,max=64"`
}

// Domain errors for the fleet directory.
var (
	ErrDriverNotFound  = fmt.Errorf("driver %w", shared.ErrNotFound)
	ErrPartnerNotFound = fmt.Errorf("partner %w", shared.ErrNotFound)
	ErrDriverExists    = fmt.Errorf("%w: driver already registered", shared.ErrConflict)
	ErrMissingOwner    = fmt.Errorf("%w: driver requires an owner", shared.ErrInvalidInput)
)
