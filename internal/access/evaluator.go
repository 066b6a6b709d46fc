package access

import "sort"

type capabilitySet map[Capability]struct{}

func newSet(caps ...Capability) capabilitySet {
	set := make(capabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// grants is read-only after init. Administrators are not listed; they hold
// every capability.
var grants = map[Kind]capabilitySet{
	KindFleetPartner: newSet(
		CapViewPartnerProfile,
		CapViewAllOrders,
		CapCreateOrders,
		CapManageOwnDrivers,
		CapViewOwnDrivers,
		CapAssignDrivers,
		CapAcceptOrders,
		CapCancelOrders,
		CapEditOrders,
		CapSetPricing,
	),
	KindBusinessPartner: newSet(
		CapViewPartnerProfile,
		CapViewCourierOptions,
		CapCreateOrders,
		CapViewOwnOrders,
		CapCancelOrders,
		CapEditOrders,
	),
	KindIndependentCourier: newSet(
		CapViewAllOrders,
		CapManageOwnDrivers,
		CapViewOwnDrivers,
		CapAcceptOrders,
		CapCreateOrders,
	),
	KindDriver: newSet(
		CapViewOwnOrders,
		CapAcceptOrders,
	),
	KindCustomer: newSet(
		CapViewOwnOrders,
		CapCreateOrders,
		CapViewCourierOptions,
		CapCancelOrders,
	),
}

// HasCapability reports whether the actor holds the capability. Nil actors,
// unknown roles and unknown capabilities are denied.
func HasCapability(a *Actor, c Capability) bool {
	if !c.IsValid() {
		return false
	}
	kind := KindOf(a)
	switch kind {
	case KindNone:
		return false
	case KindAdministrator:
		return true
	}
	_, ok := grants[kind][c]
	return ok
}

// HasAnyCapability reports whether at least one capability is held. An empty
// list is false.
func HasAnyCapability(a *Actor, caps []Capability) bool {
	for _, c := range caps {
		if HasCapability(a, c) {
			return true
		}
	}
	return false
}

// HasAllCapabilities reports whether every capability is held. An empty list
// is vacuously true, even for a nil actor.
func HasAllCapabilities(a *Actor, caps []Capability) bool {
	for _, c := range caps {
		if !HasCapability(a, c) {
			return false
		}
	}
	return true
}

// Capabilities returns the actor's effective capabilities sorted by name.
func Capabilities(a *Actor) []Capability {
	out := make([]Capability, 0, len(allCapabilities))
	for _, c := range allCapabilities {
		if HasCapability(a, c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DescribeRole returns a human readable label for the actor's classification.
func DescribeRole(a *Actor) string {
	switch KindOf(a) {
	case KindAdministrator:
		return "Administrator with full access"
	case KindFleetPartner:
		return "Fleet partner with delivery vehicles"
	case KindBusinessPartner:
		return "Business partner without delivery fleet"
	case KindIndependentCourier:
		return "Independent courier"
	case KindDriver:
		return "Driver"
	case KindCustomer:
		return "Customer"
	default:
		return ""
	}
}
