// Package services – AccessService
//
// This file implements the AccessService, the gate in front of the external
// scheduling widget. An access check validates a presented booking token
// without consuming it, so page reloads keep working until the booking is
// finalized; consumption is a separate, explicit, one-way operation.
//
// The durable token store is always consulted (directly or through the
// optional Redis read-through cache); a token is never accepted on shape
// alone.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/repo"
)

// AccessService answers "may this token schedule a session?" and performs
// token consumption.
type AccessService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Cache is the optional Redis read-through cache; nil disables caching.
	Cache *repo.TokenCache
	// SchedulerLink is the protected resource locator returned on success.
	// It is a fixed URL, identical for every valid token.
	SchedulerLink string
}

// NewAccessService constructs an AccessService. cache may be nil.
func NewAccessService(db *gorm.DB, cache *repo.TokenCache, schedulerLink string) *AccessService {
	return &AccessService{DB: db, Cache: cache, SchedulerLink: schedulerLink}
}

// Check validates the presented token and returns the scheduler link.
//
// A token is accepted iff it exists, now is strictly before its expiry, and
// it has not been consumed; anything else yields ErrTokenInvalid. The check
// is read-only: it never transitions token state.
func (s *AccessService) Check(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()

	// Cache fast path. Entries expire with the token and are removed on
	// consumption, so a hit only needs revalidation against the clock.
	if cached, err := s.Cache.Get(ctx, token); err != nil {
		log.Warn().Err(err).Msg("token cache read failed; falling back to database")
	} else if cached != nil {
		if cached.Valid(now) {
			return s.SchedulerLink, nil
		}
		return "", ErrTokenInvalid
	}

	t, err := repo.GetValidBookingToken(ctx, s.DB, token, now)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrTokenInvalid
		}
		return "", err
	}

	if err := s.Cache.Put(ctx, t, now); err != nil {
		log.Warn().Err(err).Msg("token cache write failed")
	}
	return s.SchedulerLink, nil
}

// Consume marks the token used. The transition is atomic per token (of N
// concurrent attempts exactly one succeeds) and irreversible.
//
// Errors:
//   - ErrTokenConsumed when the token was already consumed.
//   - ErrTokenInvalid when the token does not exist or has expired.
func (s *AccessService) Consume(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenInvalid
	}
	now := time.Now().UTC()

	err := repo.ConsumeBookingToken(ctx, s.DB, token, now)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrConsumed):
		return ErrTokenConsumed
	case errors.Is(err, repo.ErrNotFound):
		return ErrTokenInvalid
	default:
		return err
	}

	if err := s.Cache.Invalidate(ctx, token); err != nil {
		log.Warn().Err(err).Msg("token cache invalidate failed")
	}
	return nil
}
