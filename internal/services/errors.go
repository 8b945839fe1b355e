// Package services defines the business logic for orders, payment
// verification, booking access, and contact submissions. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrInvalidService is returned when an order references a service id
	// that does not exist in the catalog.
	ErrInvalidService = errors.New("invalid service selected")

	// ErrGatewayUnavailable indicates that the payment gateway is not
	// configured (missing or malformed credentials) or that the upstream
	// call failed.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrMissingFields is returned when a verification callback omits any of
	// the order id, payment id, or signature.
	ErrMissingFields = errors.New("missing payment details")

	// ErrInvalidSignature is returned when the callback signature does not
	// match the expected keyed digest. This is the sole authenticity gate;
	// there is no server-side call back to the gateway.
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrPaymentNotFound indicates that no payment record exists for the
	// verified gateway order id.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrTokenInvalid is returned when a presented booking token does not
	// exist, has expired, or is otherwise not acceptable.
	ErrTokenInvalid = errors.New("invalid or expired booking token")

	// ErrTokenConsumed is returned when consuming a token that was already
	// consumed. Consumption is one-way; this never silently succeeds.
	ErrTokenConsumed = errors.New("booking token already used")

	// ErrInvalidContact is returned when a contact-form submission is
	// missing required fields.
	ErrInvalidContact = errors.New("invalid contact submission")
)
