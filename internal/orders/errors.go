package orders

import (
	"fmt"

	"github.com/courierdesk/courierdesk/internal/shared"
)

// Domain errors for orders. Orders outside the caller's scope are reported
// as ErrNotFound.
var (
	ErrNotFound = fmt.Errorf("order %w", shared.ErrNotFound)

	// Status transition errors.
	ErrCannotEdit    = fmt.Errorf("%w: cannot edit order in current status", shared.ErrConflict)
	ErrCannotAccept  = fmt.Errorf("%w: cannot accept order in current status", shared.ErrConflict)
	ErrCannotAssign  = fmt.Errorf("%w: cannot assign driver in current status", shared.ErrConflict)
	ErrCannotCancel  = fmt.Errorf("%w: cannot cancel order in current status", shared.ErrConflict)
	ErrCannotPrice   = fmt.Errorf("%w: cannot price order in current status", shared.ErrConflict)
	ErrCannotDeliver = fmt.Errorf("%w: cannot deliver order in current status", shared.ErrConflict)

	// Business rule errors.
	ErrNotCarrier       = fmt.Errorf("%w: order is carried by someone else", shared.ErrConflict)
	ErrDriverNotInFleet = fmt.Errorf("%w: driver does not belong to the carrier fleet", shared.ErrInvalidInput)
	ErrMissingOwner     = fmt.Errorf("%w: order requires a customer or partner", shared.ErrInvalidInput)
)
