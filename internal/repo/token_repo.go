// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// BookingToken model.
//
// The token store is the one place in the system where a race is plausible:
// two clients may attempt to consume the same token at the same time.
// ConsumeBookingToken therefore uses a single conditional UPDATE
// ("consume iff currently unconsumed and unexpired") and inspects
// RowsAffected, never a separate read followed by a write.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/domain"
)

// ErrConsumed indicates that a booking token has already been consumed.
var ErrConsumed = errors.New("booking token already consumed")

// CreateBookingToken inserts a token row owned by paymentID. The unique index
// on payment_id makes minting at-most-once per payment: a second insert for
// the same payment returns ErrDuplicate.
func CreateBookingToken(ctx context.Context, db *gorm.DB, paymentID, token string, expiresAt time.Time) (*domain.BookingToken, error) {
	t := &domain.BookingToken{
		ID:        uuid.NewString(),
		PaymentID: paymentID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return t, nil
}

// GetBookingToken fetches a token row by its exact token string regardless of
// validity. Returns ErrNotFound when no row matches.
func GetBookingToken(ctx context.Context, db *gorm.DB, token string) (*domain.BookingToken, error) {
	var t domain.BookingToken
	err := db.WithContext(ctx).
		Where("token = ?", token).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetValidBookingToken fetches the token row iff it exists, is unconsumed,
// and expires strictly after now (a token presented at exactly its expiry
// instant is rejected). Returns ErrNotFound otherwise.
func GetValidBookingToken(ctx context.Context, db *gorm.DB, token string, now time.Time) (*domain.BookingToken, error) {
	var t domain.BookingToken
	err := db.WithContext(ctx).
		Where("token = ? AND consumed_at IS NULL AND expires_at > ?", token, now).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetBookingTokenByPayment fetches the token minted for paymentID, if any.
// Used to serve duplicate verification callbacks without minting twice.
func GetBookingTokenByPayment(ctx context.Context, db *gorm.DB, paymentID string) (*domain.BookingToken, error) {
	var t domain.BookingToken
	err := db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ConsumeBookingToken marks the token consumed at now. The transition is
// one-way and atomic per token: of N concurrent attempts exactly one
// succeeds.
//
// Returns:
//   - nil on success
//   - ErrConsumed when the token exists but was already consumed
//   - ErrNotFound when the token does not exist or has expired
func ConsumeBookingToken(ctx context.Context, db *gorm.DB, token string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.BookingToken{}).
		Where("token = ? AND consumed_at IS NULL AND expires_at > ?", token, now).
		Update("consumed_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Distinguish "already consumed" from "missing or expired" for the caller.
	t, err := GetBookingToken(ctx, db, token)
	if err != nil {
		return err
	}
	if t.ConsumedAt != nil {
		return ErrConsumed
	}
	return ErrNotFound
}
