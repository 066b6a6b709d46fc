package access

// Options describe what a protected surface requires. Empty lists impose no
// constraint.
type Options struct {
	AllowedRoles         []Role       `json:"allowed_roles,omitempty"`
	RequiredCapabilities []Capability `json:"required_capabilities,omitempty"`
	// RequireAll switches the capability check from any-of to all-of.
	RequireAll bool `json:"require_all,omitempty"`
}

// Reason explains an access decision.
type Reason string

const (
	ReasonGranted          Reason = "granted"
	ReasonNoActor          Reason = "no_actor"
	ReasonRoleDenied       Reason = "role_denied"
	ReasonCapabilityDenied Reason = "capability_denied"
)

// Decision is the outcome of evaluating Options for an actor.
type Decision struct {
	Granted bool
	Reason  Reason
}

// Explain evaluates the options and reports why access was granted or denied.
// The role check runs before the capability check; both must pass.
func Explain(a *Actor, opts Options) Decision {
	if a == nil {
		return Decision{Reason: ReasonNoActor}
	}
	if len(opts.AllowedRoles) > 0 && !roleAllowed(a.Role, opts.AllowedRoles) {
		return Decision{Reason: ReasonRoleDenied}
	}
	if len(opts.RequiredCapabilities) > 0 {
		var ok bool
		if opts.RequireAll {
			ok = HasAllCapabilities(a, opts.RequiredCapabilities)
		} else {
			ok = HasAnyCapability(a, opts.RequiredCapabilities)
		}
		if !ok {
			return Decision{Reason: ReasonCapabilityDenied}
		}
	}
	return Decision{Granted: true, Reason: ReasonGranted}
}

// ResolveAccess reports whether the actor may see or use the protected surface.
func ResolveAccess(a *Actor, opts Options) bool {
	return Explain(a, opts).Granted
}

func roleAllowed(role Role, allowed []Role) bool {
	if !role.IsValid() {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
