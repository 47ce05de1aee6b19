package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/providers"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
)

// CachedStaffAdapter wraps StaffAdapter with a Redis read-through cache.
// Rosters change through profile management only, so a short TTL keeps the
// engine's snapshot fresh enough without a DB round-trip per availability
// query.
type CachedStaffAdapter struct {
	adapter repositories.StaffRepository
	cache   providers.CacheProvider
	ttlSec  int
}

// NewCachedStaffAdapter creates a new cached staff adapter
func NewCachedStaffAdapter(adapter repositories.StaffRepository, cache providers.CacheProvider, ttlSec int) repositories.StaffRepository {
	if ttlSec <= 0 {
		ttlSec = 300
	}
	return &CachedStaffAdapter{
		adapter: adapter,
		cache:   cache,
		ttlSec:  ttlSec,
	}
}

func rosterCacheKey(clinicID string) string {
	return fmt.Sprintf("roster:%s", clinicID)
}

func staffCacheKey(id string) string {
	return fmt.Sprintf("staff:%s", id)
}

// ListByClinic retrieves the staff roster with caching
func (a *CachedStaffAdapter) ListByClinic(ctx context.Context, clinicID string) ([]*entities.Staff, error) {
	cacheKey := rosterCacheKey(clinicID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var roster []*entities.Staff
		if err := json.Unmarshal(cached, &roster); err == nil {
			return roster, nil
		}
		log.Warn().Str("clinic_id", clinicID).Msg("failed to unmarshal cached roster")
	}

	roster, err := a.adapter.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(roster); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, a.ttlSec); err != nil {
				log.Warn().Err(err).Str("clinic_id", clinicID).Msg("failed to cache roster")
			}
		}
	}()

	return roster, nil
}

// GetByID retrieves a single staff member with caching
func (a *CachedStaffAdapter) GetByID(ctx context.Context, id string) (*entities.Staff, error) {
	cacheKey := staffCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var st entities.Staff
		if err := json.Unmarshal(cached, &st); err == nil {
			return &st, nil
		}
		log.Warn().Str("staff_id", id).Msg("failed to unmarshal cached staff")
	}

	st, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(st); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, a.ttlSec); err != nil {
				log.Warn().Err(err).Str("staff_id", id).Msg("failed to cache staff")
			}
		}
	}()

	return st, nil
}

// InvalidateClinic drops the cached roster after a profile change
func (a *CachedStaffAdapter) InvalidateClinic(ctx context.Context, clinicID string) error {
	return a.cache.Delete(ctx, rosterCacheKey(clinicID))
}
