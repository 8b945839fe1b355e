// Package handlers defines HTTP-layer error codes used across all API
// endpoints.
//
// These symbolic constants are mapped to HTTP responses via the fail() helper
// and give clients a stable, machine-readable error taxonomy alongside the
// human-readable message. Generic codes mirror common HTTP status semantics;
// domain codes cover the payment/booking failure modes that a status alone
// cannot convey.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidService     = "invalid_service"
	ErrCodeGatewayUnavailable = "gateway_unavailable"
	ErrCodeMissingFields      = "missing_fields"
	ErrCodeInvalidSignature   = "invalid_signature"
	ErrCodePaymentNotFound    = "payment_not_found"
	ErrCodeAlreadyConsumed    = "already_consumed"
	ErrCodeListFailed         = "list_failed"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
)
