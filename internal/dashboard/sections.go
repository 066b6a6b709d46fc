package dashboard

import "github.com/courierdesk/courierdesk/internal/access"

// Section is one navigable area of the dashboard guarded by access options.
type Section struct {
	Key   string         `json:"key"`
	Title string         `json:"title"`
	Path  string         `json:"path"`
	Gate  access.Options `json:"-"`
}

var sections = []Section{
	{
		Key:   "orders",
		Title: "Orders",
		Path:  "/orders",
		Gate:  access.Options{RequiredCapabilities: []access.Capability{access.CapViewAllOrders, access.CapViewOwnOrders}},
	},
	{
		Key:   "drivers",
		Title: "Drivers",
		Path:  "/drivers",
		Gate: access.Options{RequiredCapabilities: []access.Capability{
			access.CapManageOwnDrivers, access.CapManageAllDrivers, access.CapViewOwnDrivers,
		}},
	},
	{
		Key:   "partners",
		Title: "Partners",
		Path:  "/partners",
		Gate:  access.Options{RequiredCapabilities: []access.Capability{access.CapViewAllPartners}},
	},
	{
		Key:   "finances",
		Title: "Finances",
		Path:  "/finances",
		Gate:  access.Options{AllowedRoles: []access.Role{access.RoleAdministrator, access.RolePartner}},
	},
	{
		Key:   "pricing",
		Title: "Pricing",
		Path:  "/pricing",
		Gate:  access.Options{RequiredCapabilities: []access.Capability{access.CapSetPricing}},
	},
	{
		Key:   "courier_options",
		Title: "Courier options",
		Path:  "/couriers",
		Gate:  access.Options{RequiredCapabilities: []access.Capability{access.CapViewCourierOptions}},
	},
	{
		Key:   "partner_profile",
		Title: "Partner profile",
		Path:  "/profile/partner",
		Gate:  access.Options{RequiredCapabilities: []access.Capability{access.CapViewPartnerProfile}},
	},
}

// Sections lists every dashboard section in navigation order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// VisibleSections returns the sections the actor may open. Anonymous actors see none.
func VisibleSections(actor *access.Actor) []Section {
	visible := make([]Section, 0, len(sections))
	for _, s := range sections {
		if access.ResolveAccess(actor, s.Gate) {
			visible = append(visible, s)
		}
	}
	return visible
}
