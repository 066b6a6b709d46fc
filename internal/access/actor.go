package access

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors returned when external data carries a value outside the closed sets.
var (
	ErrUnknownRole       = errors.New("access: unknown role")
	ErrUnknownSubtype    = errors.New("access: unknown partner subtype")
	ErrUnknownStatus     = errors.New("access: unknown account status")
	ErrUnknownCapability = errors.New("access: unknown capability")
)

// Role is the single role an authenticated actor holds.
type Role string

const (
	RoleAdministrator Role = "admin"
	RolePartner       Role = "partner"
	RoleDriver        Role = "driver"
	RoleCustomer      Role = "customer"
)

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdministrator, RolePartner, RoleDriver, RoleCustomer:
		return true
	default:
		return false
	}
}

// Roles lists every role.
func Roles() []Role {
	return []Role{RoleAdministrator, RolePartner, RoleDriver, RoleCustomer}
}

// PartnerSubtype refines partners and flags independent couriers among drivers.
type PartnerSubtype string

const (
	SubtypeNone     PartnerSubtype = ""
	SubtypeCourier  PartnerSubtype = "courier"
	SubtypeBusiness PartnerSubtype = "business"
	SubtypeFleet    PartnerSubtype = "fleet"
)

// IsValid reports whether the subtype is known. The empty subtype is valid.
func (s PartnerSubtype) IsValid() bool {
	switch s {
	case SubtypeNone, SubtypeCourier, SubtypeBusiness, SubtypeFleet:
		return true
	default:
		return false
	}
}

// Status is the informational account status carried with an actor.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// IsValid reports whether the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	default:
		return false
	}
}

// Actor is the authenticated principal as supplied by the session provider.
// A nil *Actor is the anonymous actor.
type Actor struct {
	ID             string         `json:"id"`
	Role           Role           `json:"role"`
	HasOwnFleet    bool           `json:"has_own_fleet"`
	PartnerSubtype PartnerSubtype `json:"partner_subtype,omitempty"`
	Status         Status         `json:"status"`
}

// ParseRole converts external text into a Role. "administrator" is accepted
// as an alias of "admin".
func ParseRole(raw string) (Role, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "administrator" {
		return RoleAdministrator, nil
	}
	role := Role(value)
	if !role.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// ParsePartnerSubtype converts external text into a PartnerSubtype. Blank input
// yields SubtypeNone.
func ParsePartnerSubtype(raw string) (PartnerSubtype, error) {
	subtype := PartnerSubtype(strings.ToLower(strings.TrimSpace(raw)))
	if !subtype.IsValid() {
		return SubtypeNone, fmt.Errorf("%w: %q", ErrUnknownSubtype, raw)
	}
	return subtype, nil
}

// ParseStatus converts external text into a Status. Blank input yields StatusActive.
func ParseStatus(raw string) (Status, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return StatusActive, nil
	}
	status := Status(value)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return status, nil
}

// NewActor validates raw profile fields and builds an Actor.
func NewActor(id, role string, hasOwnFleet bool, subtype, status string) (*Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("access: actor id required")
	}
	parsedRole, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	parsedSubtype, err := ParsePartnerSubtype(subtype)
	if err != nil {
		return nil, err
	}
	parsedStatus, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return &Actor{
		ID:             id,
		Role:           parsedRole,
		HasOwnFleet:    hasOwnFleet,
		PartnerSubtype: parsedSubtype,
		Status:         parsedStatus,
	}, nil
}
