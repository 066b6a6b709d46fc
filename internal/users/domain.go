package users

import (
	"fmt"
	"time"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// User is a dashboard profile as seen by administrators.
type User struct {
	ID             string                `json:"id"`
	DisplayName    string                `json:"display_name"`
	Role           access.Role           `json:"role"`
	HasOwnFleet    bool                  `json:"has_own_fleet"`
	PartnerSubtype access.PartnerSubtype `json:"partner_subtype,omitempty"`
	Status         access.Status         `json:"status"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// UpdateRequest changes the access relevant fields of a profile. Omitted
// fields keep their value; an empty partner_subtype clears it and an empty
// status means active. Values are checked against the closed sets in access.
type UpdateRequest struct {
	Role           *string `json:"role,omitempty" validate:"omitnil,max=32"`
	HasOwnFleet    *bool   `json:"has_own_fleet,omitempty"`
	PartnerSubtype *string `json:"partner_subtype,omitempty" validate:"omitnil,max=32"`
	Status         *string `json:"status,omitempty" validate:"omitnil,max=32"`
}

// ListFilter narrows the user listing. An empty role lists everyone.
type ListFilter struct {
	Role access.Role
}

var (
	// ErrNotFound indicates the profile does not exist.
	ErrNotFound = fmt.Errorf("user %w", shared.ErrNotFound)
	// ErrSelfDemotion stops administrators from removing their own role.
	ErrSelfDemotion = fmt.Errorf("%w: administrators cannot change their own role", shared.ErrConflict)
)
