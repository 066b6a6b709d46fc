package orders

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// DriverDirectory resolves which fleet a driver belongs to.
type DriverDirectory interface {
	DriverOwner(ctx context.Context, driverID string) (string, error)
}

// Service provides business logic for delivery orders. Every operation that
// takes an actor checks its capabilities before touching storage.
type Service struct {
	repo    Repository
	drivers DriverDirectory
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new service.
func NewService(repo Repository, drivers DriverDirectory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		drivers: drivers,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns the orders visible to the actor.
func (s *Service) List(ctx context.Context, actor *access.Actor, status OrderStatus, limit, offset int) ([]Order, int, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, 0, err
	}
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", shared.ErrInvalidInput, status)
	}
	return s.repo.List(ctx, ListFilter{Scope: scope, Status: status, Limit: limit, Offset: offset})
}

// Get returns a single order if it is inside the actor's scope.
func (s *Service) Get(ctx context.Context, actor *access.Actor, id string) (*Order, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Includes(*order) {
		return nil, ErrNotFound
	}
	return order, nil
}

// Create registers a new order owned by the actor. Administrators create on
// behalf of the customer or partner named in the request.
func (s *Service) Create(ctx context.Context, actor *access.Actor, req CreateRequest) (*Order, error) {
	if !access.HasCapability(actor, access.CapCreateOrders) {
		return nil, shared.ErrForbidden
	}

	now := s.now()
	order := Order{
		ID:             uuid.NewString(),
		TrackingCode:   newTrackingCode(),
		Status:         StatusPending,
		PickupAddress:  strings.TrimSpace(req.PickupAddress),
		DropoffAddress: strings.TrimSpace(req.DropoffAddress),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch access.KindOf(actor) {
	case access.KindAdministrator:
		order.CustomerID = strings.TrimSpace(req.CustomerID)
		order.PartnerID = strings.TrimSpace(req.PartnerID)
		if order.CustomerID == "" && order.PartnerID == "" {
			return nil, ErrMissingOwner
		}
	case access.KindFleetPartner, access.KindBusinessPartner:
		order.PartnerID = actor.ID
	case access.KindIndependentCourier:
		// Couriers book their own jobs and carry them.
		order.CustomerID = strings.TrimSpace(req.CustomerID)
		order.CarrierID = actor.ID
		order.DriverID = actor.ID
		order.Status = StatusAccepted
	default:
		order.CustomerID = actor.ID
	}

	if order.PickupAddress == "" || order.DropoffAddress == "" {
		return nil, fmt.Errorf("%w: pickup and dropoff addresses are required", shared.ErrInvalidInput)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.Insert(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	s.logger.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("actor_id", actor.ID),
		slog.String("status", string(order.Status)),
	)
	return &order, nil
}

// Edit changes the addresses of an order the actor is party to.
func (s *Service) Edit(ctx context.Context, actor *access.Actor, id string, req EditRequest) (*Order, error) {
	return s.mutate(ctx, actor, access.CapEditOrders, id, func(o *Order) error {
		if !o.Status.CanEdit() {
			return ErrCannotEdit
		}
		if req.PickupAddress != nil {
			o.PickupAddress = strings.TrimSpace(*req.PickupAddress)
		}
		if req.DropoffAddress != nil {
			o.DropoffAddress = strings.TrimSpace(*req.DropoffAddress)
		}
		if o.PickupAddress == "" || o.DropoffAddress == "" {
			return fmt.Errorf("%w: addresses cannot be blank", shared.ErrInvalidInput)
		}
		return nil
	})
}

// Cancel cancels an order the actor is party to.
func (s *Service) Cancel(ctx context.Context, actor *access.Actor, id string) (*Order, error) {
	return s.mutate(ctx, actor, access.CapCancelOrders, id, func(o *Order) error {
		if !o.Status.CanCancel() {
			return ErrCannotCancel
		}
		o.Status = StatusCancelled
		return nil
	})
}

// SetPrice sets the price of an order the actor is party to.
func (s *Service) SetPrice(ctx context.Context, actor *access.Actor, id string, cents int64) (*Order, error) {
	if cents < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", shared.ErrInvalidInput)
	}
	return s.mutate(ctx, actor, access.CapSetPricing, id, func(o *Order) error {
		if !o.Status.CanPrice() {
			return ErrCannotPrice
		}
		o.PriceCents = &cents
		return nil
	})
}

// Accept takes an order. Fleet partners, couriers and administrators accept
// pending orders as carrier; couriers also become the driver. Drivers accept
// orders they drive to pick them up, which puts the order in transit. For a
// courier that is a second Accept on the same order.
func (s *Service) Accept(ctx context.Context, actor *access.Actor, id string) (*Order, error) {
	if !access.HasCapability(actor, access.CapAcceptOrders) {
		return nil, shared.ErrForbidden
	}

	carrier := access.IsFleetPartner(actor) || access.IsIndependentCourier(actor) || access.IsAdministrator(actor)
	var out *Order
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		o, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case o.Status == StatusAccepted && o.DriverID == actor.ID:
			o.Status = StatusInTransit
		case carrier:
			if !o.Status.CanAccept() {
				return ErrCannotAccept
			}
			o.CarrierID = actor.ID
			if access.IsIndependentCourier(actor) {
				o.DriverID = actor.ID
			}
			o.Status = StatusAccepted
		default:
			if o.DriverID != actor.ID {
				return ErrNotFound
			}
			if o.Status != StatusAssigned {
				return ErrCannotAccept
			}
			o.Status = StatusInTransit
		}

		o.UpdatedAt = s.now()
		if err := tx.Update(ctx, *o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order accepted", slog.String("order_id", id), slog.String("actor_id", actor.ID))
	return out, nil
}

// Deliver completes an order in transit. Only the driver, the carrier or an
// administrator may mark it delivered.
func (s *Service) Deliver(ctx context.Context, actor *access.Actor, id string) (*Order, error) {
	return s.mutate(ctx, actor, access.CapAcceptOrders, id, func(o *Order) error {
		if !access.IsAdministrator(actor) && o.DriverID != actor.ID && o.CarrierID != actor.ID {
			return ErrNotCarrier
		}
		if !o.Status.CanDeliver() {
			return ErrCannotDeliver
		}
		o.Status = StatusDelivered
		return nil
	})
}

// AssignDriver puts one of the carrier's drivers on the order.
func (s *Service) AssignDriver(ctx context.Context, actor *access.Actor, id, driverID string) (*Order, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return nil, fmt.Errorf("%w: driver_id is required", shared.ErrInvalidInput)
	}
	return s.mutate(ctx, actor, access.CapAssignDrivers, id, func(o *Order) error {
		if !o.Status.CanAssign() {
			return ErrCannotAssign
		}
		if !access.IsAdministrator(actor) && o.CarrierID != actor.ID {
			return ErrNotCarrier
		}
		if s.drivers == nil {
			return fmt.Errorf("orders: no driver directory configured")
		}
		owner, err := s.drivers.DriverOwner(ctx, driverID)
		if err != nil {
			return err
		}
		if owner != o.CarrierID {
			return ErrDriverNotInFleet
		}
		o.DriverID = driverID
		o.Status = StatusAssigned
		return nil
	})
}

// Track returns the public status of an order by tracking code. It needs no
// actor; anonymous visitors may track parcels.
func (s *Service) Track(ctx context.Context, code string) (*TrackingView, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrNotFound
	}
	o, err := s.repo.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &TrackingView{TrackingCode: o.TrackingCode, Status: o.Status, UpdatedAt: o.UpdatedAt}, nil
}

// mutate applies fn to a locked order after the capability and party checks.
// Orders outside the actor's view scope surface as ErrNotFound; visible
// orders the actor is not party to are forbidden.
func (s *Service) mutate(ctx context.Context, actor *access.Actor, c access.Capability, id string, fn func(*Order) error) (*Order, error) {
	if !access.HasCapability(actor, c) {
		return nil, shared.ErrForbidden
	}
	// An actor without a view capability sees nothing.
	scope, _ := ScopeFor(actor)

	var out *Order
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		o, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !involved(actor, *o) {
			if scope.Includes(*o) {
				return shared.ErrForbidden
			}
			return ErrNotFound
		}
		if err := fn(o); err != nil {
			return err
		}
		o.UpdatedAt = s.now()
		if err := tx.Update(ctx, *o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated",
		slog.String("order_id", id),
		slog.String("actor_id", actor.ID),
		slog.String("capability", string(c)),
		slog.String("status", string(out.Status)),
	)
	return out, nil
}

const trackingAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newTrackingCode returns a human-friendly code such as CD-7KQ2M9XA.
func newTrackingCode() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		id := uuid.New()
		copy(b, id[:])
	}
	for i := range b {
		b[i] = trackingAlphabet[int(b[i])%len(trackingAlphabet)]
	}
	return "CD-" + string(b)
}
