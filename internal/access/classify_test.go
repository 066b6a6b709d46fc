package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicatesOnNilActor(t *testing.T) {
	assert.Equal(t, Classification{}, Classify(nil))
	assert.Equal(t, KindNone, KindOf(nil))
}

func TestPartnerKindsAreExclusiveAndExhaustive(t *testing.T) {
	for _, a := range []*Actor{
		{ID: "1", Role: RolePartner, HasOwnFleet: true},
		{ID: "2", Role: RolePartner},
		{ID: "3", Role: RolePartner, PartnerSubtype: SubtypeBusiness},
		{ID: "4", Role: RolePartner, HasOwnFleet: true, PartnerSubtype: SubtypeCourier},
	} {
		assert.True(t, IsPartner(a))
		assert.NotEqual(t, IsFleetPartner(a), IsBusinessPartner(a), "actor %s", a.ID)
	}
}

func TestNonPartnersAreNeitherPartnerKind(t *testing.T) {
	for _, a := range []*Actor{admin(), courier(), driver(), customer()} {
		assert.False(t, IsFleetPartner(a))
		assert.False(t, IsBusinessPartner(a))
	}
	// The fleet flag means nothing outside the partner role.
	withFlag := &Actor{ID: "d", Role: RoleDriver, HasOwnFleet: true}
	assert.False(t, IsFleetPartner(withFlag))
}

func TestIndependentCourierImpliesDriver(t *testing.T) {
	c := Classify(courier())
	assert.True(t, c.IsIndependentCourier)
	assert.True(t, c.IsDriver)

	d := Classify(driver())
	assert.True(t, d.IsDriver)
	assert.False(t, d.IsIndependentCourier)

	// A partner flagged as courier is not a driver.
	p := Classify(&Actor{ID: "p", Role: RolePartner, PartnerSubtype: SubtypeCourier})
	assert.False(t, p.IsIndependentCourier)
	assert.False(t, p.IsDriver)
}

func TestKindOf(t *testing.T) {
	cases := map[Kind]*Actor{
		KindAdministrator:      admin(),
		KindFleetPartner:       fleetPartner(),
		KindBusinessPartner:    businessPartner(),
		KindIndependentCourier: courier(),
		KindDriver:             driver(),
		KindCustomer:           customer(),
		KindNone:               {ID: "x", Role: "ghost"},
	}
	for want, a := range cases {
		assert.Equal(t, want, KindOf(a), want.String())
	}
}

func TestClassifyCustomer(t *testing.T) {
	assert.Equal(t, Classification{IsCustomer: true}, Classify(customer()))
	assert.Equal(t, Classification{IsAdministrator: true}, Classify(admin()))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Administrator ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdministrator, role)

	role, err = ParseRole("partner")
	require.NoError(t, err)
	assert.Equal(t, RolePartner, role)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseOptionalFields(t *testing.T) {
	subtype, err := ParsePartnerSubtype("")
	require.NoError(t, err)
	assert.Equal(t, SubtypeNone, subtype)

	_, err = ParsePartnerSubtype("freelancer")
	assert.ErrorIs(t, err, ErrUnknownSubtype)

	status, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, status)

	_, err = ParseStatus("banned")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	c, err := ParseCapability("SET_PRICING")
	require.NoError(t, err)
	assert.Equal(t, CapSetPricing, c)

	_, err = ParseCapability("fly")
	assert.ErrorIs(t, err, ErrUnknownCapability)
}

func TestNewActor(t *testing.T) {
	a, err := NewActor("d-9", "driver", false, "courier", "suspended")
	require.NoError(t, err)
	assert.Equal(t, &Actor{ID: "d-9", Role: RoleDriver, PartnerSubtype: SubtypeCourier, Status: StatusSuspended}, a)
	// Status is carried but never consulted.
	assert.True(t, HasCapability(a, CapViewAllOrders))

	_, err = NewActor("", "driver", false, "", "")
	assert.Error(t, err)

	_, err = NewActor("x", "robot", false, "", "")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
