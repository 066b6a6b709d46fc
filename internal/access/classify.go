package access

// Kind is the classification that keys the capability table.
type Kind int

const (
	KindNone Kind = iota
	KindAdministrator
	KindFleetPartner
	KindBusinessPartner
	KindIndependentCourier
	KindDriver
	KindCustomer
)

// String returns a stable identifier for the kind.
func (k Kind) String() string {
	switch k {
	case KindAdministrator:
		return "administrator"
	case KindFleetPartner:
		return "fleet_partner"
	case KindBusinessPartner:
		return "business_partner"
	case KindIndependentCourier:
		return "independent_courier"
	case KindDriver:
		return "driver"
	case KindCustomer:
		return "customer"
	default:
		return "none"
	}
}

// KindOf classifies the actor. Nil actors and unknown roles are KindNone.
func KindOf(a *Actor) Kind {
	if a == nil {
		return KindNone
	}
	switch a.Role {
	case RoleAdministrator:
		return KindAdministrator
	case RolePartner:
		if a.HasOwnFleet {
			return KindFleetPartner
		}
		return KindBusinessPartner
	case RoleDriver:
		if a.PartnerSubtype == SubtypeCourier {
			return KindIndependentCourier
		}
		return KindDriver
	case RoleCustomer:
		return KindCustomer
	default:
		return KindNone
	}
}

// IsAdministrator reports whether the actor is an administrator.
func IsAdministrator(a *Actor) bool { return a != nil && a.Role == RoleAdministrator }

// IsPartner reports whether the actor is a partner of either kind.
func IsPartner(a *Actor) bool { return a != nil && a.Role == RolePartner }

// IsFleetPartner reports whether the actor is a partner that owns drivers.
func IsFleetPartner(a *Actor) bool { return IsPartner(a) && a.HasOwnFleet }

// IsBusinessPartner is the complement of IsFleetPartner among partners.
func IsBusinessPartner(a *Actor) bool { return IsPartner(a) && !a.HasOwnFleet }

// IsDriver reports whether the actor is a driver, courier or not.
func IsDriver(a *Actor) bool { return a != nil && a.Role == RoleDriver }

// IsIndependentCourier reports whether the actor is a driver flagged as courier.
func IsIndependentCourier(a *Actor) bool {
	return IsDriver(a) && a.PartnerSubtype == SubtypeCourier
}

// IsCustomer reports whether the actor is a customer.
func IsCustomer(a *Actor) bool { return a != nil && a.Role == RoleCustomer }

// Classification bundles the derived role predicates for one actor.
type Classification struct {
	IsAdministrator      bool `json:"is_administrator"`
	IsPartner            bool `json:"is_partner"`
	IsFleetPartner       bool `json:"is_fleet_partner"`
	IsBusinessPartner    bool `json:"is_business_partner"`
	IsDriver             bool `json:"is_driver"`
	IsIndependentCourier bool `json:"is_independent_courier"`
	IsCustomer           bool `json:"is_customer"`
}

// Classify evaluates every predicate for the actor.
func Classify(a *Actor) Classification {
	return Classification{
		IsAdministrator:      IsAdministrator(a),
		IsPartner:            IsPartner(a),
		IsFleetPartner:       IsFleetPartner(a),
		IsBusinessPartner:    IsBusinessPartner(a),
		IsDriver:             IsDriver(a),
		IsIndependentCourier: IsIndependentCourier(a),
		IsCustomer:           IsCustomer(a),
	}
}
