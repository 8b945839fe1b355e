// Payment HTTP handlers.
//
// This file exposes the REST endpoints of the payment flow:
//   - POST /payments/create-order  (create a gateway charge intent)
//   - POST /payments/verify        (verify the gateway callback, mint token)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. The verify endpoint
// additionally delivers the booking token twice — as an HTTP-only cookie and
// in the JSON body — to support both cookie-based and token-in-URL client
// flows.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/domain"
	"github.com/serenemind/go-booking-backend/internal/http/middleware"
	"github.com/serenemind/go-booking-backend/internal/repo"
	"github.com/serenemind/go-booking-backend/internal/services"
)

// BookingCookieName is the cookie that carries the booking token between the
// payment flow and the scheduling page.
const BookingCookieName = "booking_token"

//
// Service contracts (context-aware)
//

// OrderService defines order-creation operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type OrderService interface {
	// Create prices a catalog service, asks the gateway for a charge intent,
	// and persists the payment record.
	Create(ctx context.Context, serviceID, email, phone string) (*services.OrderDetails, error)
	// Lookup rebuilds order details for a previously created order (replays).
	Lookup(ctx context.Context, orderID string) (*services.OrderDetails, error)
}

// VerificationService verifies gateway callbacks and issues booking tokens.
type VerificationService interface {
	// VerifyAndIssue authenticates a completed charge and returns the
	// (possibly pre-existing) booking token for it.
	VerifyAndIssue(ctx context.Context, orderID, paymentID, signature string) (*domain.BookingToken, error)
}

// AccessService gates the external scheduling widget behind booking tokens.
type AccessService interface {
	// Check validates a token without consuming it and returns the widget URL.
	Check(ctx context.Context, token string) (string, error)
	// Consume marks a token used; one-way, at most once.
	Consume(ctx context.Context, token string) error
}

// ContactService persists contact-form submissions.
type ContactService interface {
	// Submit validates and stores a submission.
	Submit(ctx context.Context, name, email, phone, message string) (*domain.Contact, error)
	// ListPage returns a page of submissions and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Contact, int64, error)
}

//
// Handler wiring
//

// Options carries the transport-level settings the handlers need.
type Options struct {
	// CookieSecure sets the Secure attribute on the booking-token cookie.
	CookieSecure bool
	// CookieTTL is the cookie max age; it matches the token lifetime.
	CookieTTL time.Duration
	// IdempotencyTTL bounds how long an Idempotency-Key replays.
	IdempotencyTTL time.Duration
}

// Handlers groups the HTTP endpoints for payments, booking access, the
// catalog, and contact submissions. It depends on abstract service interfaces
// to keep transport concerns separate from business logic.
type Handlers struct {
	orderSvc   OrderService
	verifySvc  VerificationService
	accessSvc  AccessService
	contactSvc ContactService
	opts       Options
}

// New constructs a Handlers instance bound to the given services.
func New(orderSvc OrderService, verifySvc VerificationService, accessSvc AccessService, contactSvc ContactService, opts Options) *Handlers {
	if opts.CookieTTL <= 0 {
		opts.CookieTTL = 24 * time.Hour
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 24 * time.Hour
	}
	return &Handlers{
		orderSvc:   orderSvc,
		verifySvc:  verifySvc,
		accessSvc:  accessSvc,
		contactSvc: contactSvc,
		opts:       opts,
	}
}

// clientID identifies the caller for idempotency records. The site has no
// login, so the client IP is the only stable identity available.
func clientID(c *gin.Context) string {
	return c.ClientIP()
}

//
// DTOs
//

// CreateOrderRequest is the JSON payload for creating a payment order.
type CreateOrderRequest struct {
	// ServiceID selects the catalog entry to pay for.
	ServiceID string `json:"serviceId" binding:"required" example:"individual-therapy"`
	// Email optionally records a contact address on the payment.
	Email string `json:"email,omitempty" example:"client@example.com"`
	// Phone optionally records a contact number on the payment.
	Phone string `json:"phone,omitempty" example:"+91 98765 43210"`
}

// CreateOrderResponse carries everything the client needs to render the
// gateway checkout UI. KeyID is the public key identifier, never the secret.
type CreateOrderResponse struct {
	OrderID         string `json:"orderId"`
	Amount          int64  `json:"amount"` // paise
	Currency        string `json:"currency"`
	KeyID           string `json:"keyId"`
	ServiceName     string `json:"serviceName"`
	ServiceDuration int    `json:"serviceDuration"`
}

// VerifyPaymentRequest is the callback payload the gateway hands the client
// after a completed charge. Field names follow the gateway convention.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" example:"order_NXhJ3ZkrTYvq1x"`
	PaymentID string `json:"razorpay_payment_id" example:"pay_NXhKc2AlSJZJr9"`
	Signature string `json:"razorpay_signature" example:"2fb8c4e1…"`
}

// VerifyPaymentResponse confirms a verified charge and carries the booking
// token (also set as a cookie).
type VerifyPaymentResponse struct {
	Success      bool   `json:"success"`
	BookingToken string `json:"bookingToken"`
	Message      string `json:"message"`
}

//
// Handlers
//

// CreateOrder godoc
// @ID          createOrder
// @Summary     Create a payment order
// @Description Creates a gateway charge intent for a catalog service and returns the parameters for rendering the checkout UI.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Replay-safe retry key"
// @Param       body             body    handlers.CreateOrderRequest  true  "Order payload"
//
// @Success     200  {object}  handlers.CreateOrderResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid service or payload"
// @Failure     502  {object}  handlers.ErrorResponse  "Gateway not configured or unavailable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /payments/create-order [post]
func (h *Handlers) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Replay path: an Idempotency-Key seen before returns the order created
	// the first time instead of asking the gateway for a second charge intent.
	key, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && middleware.IsReplay(c) {
		if db := h.orderDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, clientID(c), key, time.Now().UTC()); err == nil {
				if ord, err := h.orderSvc.Lookup(ctx, rec.OrderID); err == nil {
					ok(c, rec.Status, orderResponse(ord))
					return
				}
			}
		}
	}

	ord, err := h.orderSvc.Create(ctx, req.ServiceID, req.Email, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidService):
			fail(c, http.StatusBadRequest, ErrCodeInvalidService, "invalid service selected")
		case errors.Is(err, services.ErrGatewayUnavailable):
			fail(c, http.StatusBadGateway, ErrCodeGatewayUnavailable, "payment gateway not configured or unavailable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to create payment order")
		}
		return
	}

	// Record the key → order binding so retries replay this response.
	if hasKey {
		if db := h.orderDB(); db != nil {
			_, _ = repo.CreateIdempotency(ctx, db, clientID(c), key, ord.OrderID, http.StatusOK, h.opts.IdempotencyTTL)
		}
	}

	ok(c, http.StatusOK, orderResponse(ord))
}

// VerifyPayment godoc
// @ID          verifyPayment
// @Summary     Verify a completed charge
// @Description Checks the gateway callback signature, marks the payment paid, and issues a single-use booking token (cookie + body).
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.VerifyPaymentRequest  true  "Gateway callback values"
//
// @Success     200  {object}  handlers.VerifyPaymentResponse
// @Header      200  {string}  Set-Cookie  "booking_token; HttpOnly; Secure; SameSite=Strict; Max-Age=86400"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing fields or invalid signature"
// @Failure     404  {object}  handlers.ErrorResponse  "Payment not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Gateway secret not configured"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /payments/verify [post]
func (h *Handlers) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeMissingFields, "missing payment details")
		return
	}

	token, err := h.verifySvc.VerifyAndIssue(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeMissingFields, "missing payment details")
		case errors.Is(err, services.ErrGatewayUnavailable):
			fail(c, http.StatusBadGateway, ErrCodeGatewayUnavailable, "payment gateway not configured")
		case errors.Is(err, services.ErrInvalidSignature):
			fail(c, http.StatusBadRequest, ErrCodeInvalidSignature, "invalid payment signature")
		case errors.Is(err, services.ErrPaymentNotFound):
			fail(c, http.StatusNotFound, ErrCodePaymentNotFound, "payment not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to verify payment")
		}
		return
	}

	// Dual delivery: cookie for browser flows, body for token-in-URL flows.
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(BookingCookieName, token.Token, int(h.opts.CookieTTL.Seconds()), "/", "", h.opts.CookieSecure, true)

	ok(c, http.StatusOK, VerifyPaymentResponse{
		Success:      true,
		BookingToken: token.Token,
		Message:      "Payment verified successfully",
	})
}

// orderDB exposes the order service's DB handle for idempotency bookkeeping
// (best effort; replays degrade to normal creation when unavailable).
func (h *Handlers) orderDB() *gorm.DB {
	if svc, okCast := h.orderSvc.(*services.OrderService); okCast {
		return svc.DB
	}
	return nil
}

func orderResponse(ord *services.OrderDetails) CreateOrderResponse {
	return CreateOrderResponse{
		OrderID:         ord.OrderID,
		Amount:          ord.Amount,
		Currency:        ord.Currency,
		KeyID:           ord.KeyID,
		ServiceName:     ord.ServiceName,
		ServiceDuration: ord.ServiceDuration,
	}
}
