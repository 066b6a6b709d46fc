package access

import (
	"fmt"
	"strings"
)

// Capability is a named permission. Capabilities carry no data.
type Capability string

// Order capabilities.
const (
	CapViewAllOrders Capability = "view_all_orders"
	CapViewOwnOrders Capability = "view_own_orders"
	CapCreateOrders  Capability = "create_orders"
	CapAcceptOrders  Capability = "accept_orders"
	CapCancelOrders  Capability = "cancel_orders"
	CapEditOrders    Capability = "edit_orders"
	CapSetPricing    Capability = "set_pricing"
)

// Driver capabilities.
const (
	CapManageOwnDrivers Capability = "manage_own_drivers"
	CapManageAllDrivers Capability = "manage_all_drivers"
	CapViewOwnDrivers   Capability = "view_own_drivers"
	CapAssignDrivers    Capability = "assign_drivers"
)

// Partner capabilities.
const (
	CapViewAllPartners    Capability = "view_all_partners"
	CapViewPartnerProfile Capability = "view_partner_profile"
	CapViewCourierOptions Capability = "view_courier_options"
)

var allCapabilities = []Capability{
	CapViewAllOrders,
	CapViewOwnOrders,
	CapCreateOrders,
	CapAcceptOrders,
	CapCancelOrders,
	CapEditOrders,
	CapSetPricing,
	CapManageOwnDrivers,
	CapManageAllDrivers,
	CapViewOwnDrivers,
	CapAssignDrivers,
	CapViewAllPartners,
	CapViewPartnerProfile,
	CapViewCourierOptions,
}

// AllCapabilities lists the closed capability set in declaration order.
func AllCapabilities() []Capability {
	out := make([]Capability, len(allCapabilities))
	copy(out, allCapabilities)
	return out
}

// IsValid reports whether the capability belongs to the closed set.
func (c Capability) IsValid() bool {
	for _, known := range allCapabilities {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCapability converts external text into a Capability.
func ParseCapability(raw string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, raw)
	}
	return c, nil
}
