package actors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/courierdesk/courierdesk/internal/access"
)

var (
	// ErrNotFound indicates no profile exists for the actor ID.
	ErrNotFound = errors.New("actors: profile not found")
	// ErrInvalidProfile indicates a stored profile carries values outside the closed sets.
	ErrInvalidProfile = errors.New("actors: invalid profile")
)

// Record is a raw profiles row as stored by the backend. Values are matched
// case-insensitively against the closed sets in access.
type Record struct {
	ID             string  `json:"id" validate:"required,max=64"`
	Role           string  `json:"role" validate:"required,max=32"`
	HasOwnFleet    *bool   `json:"has_own_fleet"`
	PartnerSubtype *string `json:"partner_subtype" validate:"omitnil,max=32"`
	Status         *string `json:"status" validate:"omitnil,max=32"`
}

var validate = validator.New()

// ToActor validates the record and converts it into an access.Actor. Missing
// optional fields are normalised rather than rejected.
func (r Record) ToActor() (*access.Actor, error) {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, fmt.Errorf("%w: %s failed %s", ErrInvalidProfile, fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	var subtype, status string
	if r.PartnerSubtype != nil {
		subtype = *r.PartnerSubtype
	}
	if r.Status != nil {
		status = *r.Status
	}
	actor, err := access.NewActor(r.ID, r.Role, r.HasOwnFleet != nil && *r.HasOwnFleet, subtype, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return actor, nil
}
