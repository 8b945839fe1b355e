// Package services – VerificationService
//
// This file implements the VerificationService, which handles the gateway's
// post-charge callback: it authenticates the callback via a constant-time
// keyed-hash check, flips the payment record to "paid", and mints the
// single-use booking token that unlocks the scheduling widget.
//
// Concurrency & idempotency:
//   - The status flip and the token mint run inside one transaction.
//   - The unique index on booking_tokens.payment_id makes minting
//     at-most-once per payment: a duplicate callback for an already-paid
//     order returns the previously minted token instead of a second one.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/domain"
	"github.com/serenemind/go-booking-backend/internal/repo"
)

// SignatureVerifier is the narrow gateway contract required by
// VerificationService. The production implementation is gateway.Client.
type SignatureVerifier interface {
	// VerifySignature reports whether signature is the expected keyed digest
	// for (orderID, paymentID). Implementations must compare in constant time.
	VerifySignature(orderID, paymentID, signature string) bool
}

// VerificationService verifies gateway callbacks and issues booking tokens.
type VerificationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Verifier checks callback signatures; nil when the gateway secret is
	// not configured, in which case every call fails with
	// ErrGatewayUnavailable.
	Verifier SignatureVerifier
	// TokenTTL is the lifetime of minted booking tokens (typically 24h).
	TokenTTL time.Duration
}

// NewVerificationService constructs a VerificationService. verifier may be
// nil when the gateway is not configured.
func NewVerificationService(db *gorm.DB, verifier SignatureVerifier, tokenTTL time.Duration) *VerificationService {
	return &VerificationService{DB: db, Verifier: verifier, TokenTTL: tokenTTL}
}

// VerifyAndIssue authenticates a completed charge and returns the booking
// token for it.
//
// Semantics and validation:
//   - orderID, paymentID, and signature must all be present; otherwise
//     ErrMissingFields.
//   - The gateway secret must be configured; otherwise ErrGatewayUnavailable.
//   - The signature must match the keyed digest of "orderID|paymentID";
//     otherwise ErrInvalidSignature. This is the sole authenticity gate.
//   - A payment record must exist for orderID; otherwise ErrPaymentNotFound.
//   - On success the payment becomes "paid" and exactly one token exists for
//     it, expiring TokenTTL from now. A repeated callback returns that same
//     token.
func (s *VerificationService) VerifyAndIssue(ctx context.Context, orderID, paymentID, signature string) (*domain.BookingToken, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, ErrMissingFields
	}
	if s.Verifier == nil {
		return nil, ErrGatewayUnavailable
	}
	if !s.Verifier.VerifySignature(orderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	var token *domain.BookingToken
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := repo.GetPaymentByOrderID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		if err := repo.MarkPaymentPaid(ctx, tx, orderID, paymentID, signature); err != nil {
			return err
		}

		raw, err := newBookingToken()
		if err != nil {
			return err
		}
		expiresAt := time.Now().UTC().Add(s.TokenTTL)

		token, err = repo.CreateBookingToken(ctx, tx, payment.ID, raw, expiresAt)
		if errors.Is(err, repo.ErrDuplicate) {
			// Duplicate callback: serve the token minted the first time.
			token, err = repo.GetBookingTokenByPayment(ctx, tx, payment.ID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// newBookingToken returns a cryptographically random 256-bit bearer
// credential, hex-encoded to 64 characters.
func newBookingToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate booking token: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
