package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// Service provides directory lookups gated by actor capabilities.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a fleet service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// ListDrivers returns every driver for manage_all_drivers holders and the
// actor's own drivers for view_own_drivers or manage_own_drivers holders.
func (s *Service) ListDrivers(ctx context.Context, actor *access.Actor) ([]Driver, error) {
	switch {
	case access.HasCapability(actor, access.CapManageAllDrivers):
		return s.repo.ListDrivers(ctx, "")
	case access.HasAnyCapability(actor, []access.Capability{access.CapViewOwnDrivers, access.CapManageOwnDrivers}):
		return s.repo.ListDrivers(ctx, actor.ID)
	default:
		return nil, shared.ErrForbidden
	}
}

// AddDriver registers a driver under the actor, or under req.OwnerID when
// the actor manages every fleet.
func (s *Service) AddDriver(ctx context.Context, actor *access.Actor, req AddDriverRequest) (*Driver, error) {
	owner := ""
	switch {
	case access.HasCapability(actor, access.CapManageAllDrivers):
		owner = strings.TrimSpace(req.OwnerID)
		if owner == "" {
			return nil, ErrMissingOwner
		}
	case access.HasCapability(actor, access.CapManageOwnDrivers):
		owner = actor.ID
	default:
		return nil, shared.ErrForbidden
	}

	d := Driver{
		ID:        strings.TrimSpace(req.ID),
		OwnerID:   owner,
		Name:      strings.TrimSpace(req.Name),
		Phone:     req.Phone,
		Active:    true,
		CreatedAt: s.now(),
	}
	if d.ID == "" || d.Name == "" {
		return nil, fmt.Errorf("%w: driver id and name are required", shared.ErrInvalidInput)
	}
	if err := s.repo.InsertDriver(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("driver added",
		slog.String("driver_id", d.ID),
		slog.String("owner_id", owner),
		slog.String("actor_id", actor.ID),
	)
	return &d, nil
}

// DriverOwner reports who owns the driver. Orders use it to keep drivers
// inside their carrier's fleet.
func (s *Service) DriverOwner(ctx context.Context, driverID string) (string, error) {
	d, err := s.repo.GetDriver(ctx, driverID)
	if err != nil {
		return "", err
	}
	return d.OwnerID, nil
}

// ListPartners returns every partner for view_all_partners holders.
func (s *Service) ListPartners(ctx context.Context, actor *access.Actor) ([]Partner, error) {
	if !access.HasCapability(actor, access.CapViewAllPartners) {
		return nil, shared.ErrForbidden
	}
	return s.repo.ListPartners(ctx)
}

// PartnerProfile returns the actor's own partner profile.
func (s *Service) PartnerProfile(ctx context.Context, actor *access.Actor) (*PartnerProfile, error) {
	if !access.HasCapability(actor, access.CapViewPartnerProfile) {
		return nil, shared.ErrForbidden
	}
	p, err := s.repo.GetPartner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &PartnerProfile{
		Partner:     *p,
		Kind:        access.KindOf(actor).String(),
		Description: access.DescribeRole(actor),
	}, nil
}

// CourierOptions lists active independent couriers a shipper may book.
func (s *Service) CourierOptions(ctx context.Context, actor *access.Actor) ([]CourierOption, error) {
	if !access.HasCapability(actor, access.CapViewCourierOptions) {
		return nil, shared.ErrForbidden
	}
	return s.repo.ListCourierOptions(ctx)
}
