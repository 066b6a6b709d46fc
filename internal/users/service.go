package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, filter ListFilter) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, u User) error
}

// Invalidator evicts cached actors after a profile change.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// Service handles profile administration.
type Service struct {
	repo   RepositoryPort
	actors Invalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, actors Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, actors: actors, logger: logger, now: time.Now}
}

// ListUsers returns profiles matching the filter.
func (s *Service) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	return s.repo.ListUsers(ctx, filter)
}

// GetUser returns one profile.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.repo.GetUser(ctx, strings.TrimSpace(id))
}

// UpdateProfile applies req to the profile and evicts the cached actor so the
// next request sees the new capabilities.
func (s *Service) UpdateProfile(ctx context.Context, by *access.Actor, id string, req UpdateRequest) (User, error) {
	user, err := s.repo.GetUser(ctx, strings.TrimSpace(id))
	if err != nil {
		return User{}, err
	}
	if req.Role != nil {
		role, err := access.ParseRole(*req.Role)
		if err != nil {
			return User{}, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
		}
		if by != nil && by.ID == user.ID && by.Role == access.RoleAdministrator && role != access.RoleAdministrator {
			return User{}, ErrSelfDemotion
		}
		user.Role = role
	}
	if req.HasOwnFleet != nil {
		user.HasOwnFleet = *req.HasOwnFleet
	}
	if req.PartnerSubtype != nil {
		subtype, err := access.ParsePartnerSubtype(*req.PartnerSubtype)
		if err != nil {
			return User{}, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
		}
		user.PartnerSubtype = subtype
	}
	if req.Status != nil {
		status, err := access.ParseStatus(*req.Status)
		if err != nil {
			return User{}, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
		}
		user.Status = status
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return User{}, err
	}
	if s.actors != nil {
		// A failed eviction leaves the old actor cached until its TTL runs out.
		if err := s.actors.Invalidate(ctx, user.ID); err != nil {
			s.logger.Warn("users: invalidate actor cache", slog.String("actor_id", user.ID), slog.Any("error", err))
		}
	}
	s.logger.Info("profile updated",
		slog.String("actor_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.Bool("has_own_fleet", user.HasOwnFleet),
	)
	return user, nil
}
