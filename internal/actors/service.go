package actors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/courierdesk/courierdesk/internal/access"
)

// RepositoryPort defines data access methods for profiles.
type RepositoryPort interface {
	FindByID(ctx context.Context, id string) (Record, error)
}

// Lookup sources reported to a LookupObserver.
const (
	SourceCache   = "cache"
	SourceStore   = "store"
	SourceMissing = "missing"
	SourceError   = "error"
)

// LookupObserver receives the outcome of every Resolve call.
type LookupObserver interface {
	ObserveActorLookup(source string)
}

// Service resolves actor IDs into access.Actor values.
type Service struct {
	repo   RepositoryPort
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group

	// Observer is optional.
	Observer LookupObserver
}

// NewService builds a Service. cache and logger may be nil.
func NewService(repo RepositoryPort, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Resolve returns the actor for id. Every call returns a fresh copy so callers
// cannot mutate shared state.
func (s *Service) Resolve(ctx context.Context, id string) (*access.Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	if actor, ok, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Warn("actor cache get", slog.String("actor_id", id), slog.Any("error", err))
	} else if ok {
		s.observe(SourceCache)
		return actor, nil
	}

	// Waiters share the load; it runs detached from any one caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(id, func() (interface{}, error) {
		rec, err := s.repo.FindByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		actor, err := rec.ToActor()
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", id, err)
		}
		if err := s.cache.Set(loadCtx, actor); err != nil {
			s.logger.Warn("actor cache set", slog.String("actor_id", id), slog.Any("error", err))
		}
		return actor, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.observe(SourceMissing)
		} else {
			s.observe(SourceError)
		}
		return nil, err
	}
	s.observe(SourceStore)
	copied := *v.(*access.Actor)
	return &copied, nil
}

func (s *Service) observe(source string) {
	if s.Observer != nil {
		s.Observer.ObserveActorLookup(source)
	}
}

// Invalidate evicts a cached actor after its profile changed.
func (s *Service) Invalidate(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, id)
}
