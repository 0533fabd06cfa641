package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/courseloop/assessment-platform/internal/assessment"
)

// ErrNotFound signals a lookup for an item that does not exist.
var ErrNotFound = errors.New("item not found")

// Store is the persistence behavior the service needs (implemented by
// the Postgres repository).
type Store interface {
	Insert(ctx context.Context, it assessment.Item) error
	Update(ctx context.Context, it assessment.Item) error
	Get(ctx context.Context, id string) (assessment.Item, error)
	Delete(ctx context.Context, id string) error
}

// Cache defines cache behavior (implemented by the Redis-backed Cache).
type Cache interface {
	Get(ctx context.Context, id string) (*assessment.Item, error)
	Set(ctx context.Context, it assessment.Item) error
	Invalidate(ctx context.Context, id string) error
}

// Service orchestrates authored-item persistence: reads go through the
// cache, writes validate and invalidate. It implements the editor's
// Saver contract.
type Service struct {
	store  Store
	cache  Cache
	logger zerolog.Logger
}

var _ assessment.Saver = (*Service)(nil)

func NewService(store Store, cache Cache, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger.With().Str("component", "item_service").Logger(),
	}
}

// Load fetches an item by id, cache first. Cache failures fall through
// to the store; they never fail a read.
func (s *Service) Load(ctx context.Context, id string) (assessment.Item, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
			return *cached, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Str("item_id", id).Msg("cache read failed")
		}
	}

	it, err := s.store.Get(ctx, id)
	if err != nil {
		return assessment.Item{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, it); err != nil {
			s.logger.Warn().Err(err).Str("item_id", it.ID).Msg("cache fill failed")
		}
	}
	return it, nil
}

// SaveItem validates and upserts an item, assigning an id when the item
// is new, and drops any stale cache entry.
func (s *Service) SaveItem(ctx context.Context, it assessment.Item) (string, error) {
	if err := assessment.Validate(it); err != nil {
		return "", fmt.Errorf("validate item: %w", err)
	}

	if it.ID == "" {
		it.ID = uuid.NewString()
		if err := s.store.Insert(ctx, it); err != nil {
			return "", fmt.Errorf("insert item: %w", err)
		}
		return it.ID, nil
	}

	err := s.store.Update(ctx, it)
	if errors.Is(err, ErrNotFound) {
		err = s.store.Insert(ctx, it)
	}
	if err != nil {
		return "", fmt.Errorf("save item: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, it.ID); err != nil {
			s.logger.Warn().Err(err).Str("item_id", it.ID).Msg("cache invalidate failed")
		}
	}
	return it.ID, nil
}

// Delete removes an item and its cache entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("item_id", id).Msg("cache invalidate failed")
		}
	}
	return nil
}
