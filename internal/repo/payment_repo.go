// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Payment
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a payment is not found, functions return ErrNotFound (an alias of
//     gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated, except unique violations on the
//     gateway order id which map to ErrDuplicate.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique-constraint violation (gateway order id,
// token string, token-per-payment, or idempotency key).
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation detects unique-constraint failures across drivers.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// CreatePayment inserts a new Payment row in status "created" for the given
// gateway order. Amount is in INR rupees; serviceID/serviceName are the
// catalog snapshot taken at order-creation time. Email and phone may be
// empty.
//
// On a duplicate gateway order id it returns ErrDuplicate; on other DB
// failures the raw error.
func CreatePayment(ctx context.Context, db *gorm.DB, orderID string, amount int64, currency, serviceID, serviceName, email, phone string) (*domain.Payment, error) {
	p := &domain.Payment{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		Amount:      amount,
		Currency:    currency,
		Status:      domain.StatusCreated,
		ServiceID:   serviceID,
		ServiceName: serviceName,
		Email:       email,
		Phone:       phone,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return p, nil
}

// GetPaymentByOrderID fetches a payment by its gateway order id, the lookup
// key used during callback verification. Returns ErrNotFound when missing.
func GetPaymentByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	err := db.WithContext(ctx).
		Where("razorpay_order_id = ?", orderID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaymentPaid transitions the payment for orderID to status "paid" and
// records the gateway payment id and signature. The update is idempotent
// under retry: re-applying the same verified callback writes the same values.
// Returns ErrNotFound when no payment exists for orderID.
func MarkPaymentPaid(ctx context.Context, db *gorm.DB, orderID, paymentID, signature string) error {
	res := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("razorpay_order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":              domain.StatusPaid,
			"razorpay_payment_id": paymentID,
			"razorpay_signature":  signature,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
