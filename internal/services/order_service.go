// Package services – OrderService
//
// This file implements the OrderService, which turns a catalog service id
// into a gateway charge intent and a persisted payment record. It validates
// the service id, prices the order in the gateway's minor-unit convention
// (paise), asks the gateway for an order, and records the snapshot the client
// needs to render the checkout widget.
//
// Service-level errors (ErrInvalidService, ErrGatewayUnavailable) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/catalog"
	"github.com/serenemind/go-booking-backend/internal/repo"
)

// Currency is the fixed settlement currency for all orders.
const Currency = "INR"

// OrderGateway is the narrow gateway contract required by OrderService.
// The production implementation is gateway.Client.
type OrderGateway interface {
	// KeyID returns the public key identifier echoed to clients.
	KeyID() string
	// CreateOrder creates a charge intent and returns the gateway order id.
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error)
}

// OrderDetails is everything the client needs to render the gateway's
// checkout UI without the server proxying the actual charge.
type OrderDetails struct {
	OrderID         string
	Amount          int64 // paise
	Currency        string
	KeyID           string
	ServiceName     string
	ServiceDuration int // minutes
}

// OrderService creates gateway orders and their payment records.
type OrderService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Gateway is the payment-gateway client; nil when credentials are not
	// configured, in which case every call fails with ErrGatewayUnavailable.
	Gateway OrderGateway
}

// NewOrderService constructs an OrderService. gw may be nil when the gateway
// is not configured.
func NewOrderService(db *gorm.DB, gw OrderGateway) *OrderService {
	return &OrderService{DB: db, Gateway: gw}
}

// Create asks the gateway for a charge intent for the given catalog service
// and persists a Payment in status "created". Email and phone are optional
// contact details echoed into the record.
//
// Duplicate calls for the same logical booking create duplicate orders; this
// is accepted behavior. Callers wanting safe retries use an Idempotency-Key
// and the replay path in the HTTP layer.
func (s *OrderService) Create(ctx context.Context, serviceID, email, phone string) (*OrderDetails, error) {
	svc, ok := catalog.Lookup(serviceID)
	if !ok {
		return nil, ErrInvalidService
	}
	if s.Gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	// Receipt ids are unique per request (time-based); notes tag the order
	// with the catalog snapshot for auditability on the gateway side.
	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
	notes := map[string]interface{}{
		"serviceId":   svc.ID,
		"serviceName": svc.Title,
	}

	orderID, err := s.Gateway.CreateOrder(ctx, svc.AmountPaise(), Currency, receipt, notes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if _, err := repo.CreatePayment(ctx, s.DB, orderID, svc.Price, Currency, svc.ID, svc.Title, email, phone); err != nil {
		return nil, err
	}

	return &OrderDetails{
		OrderID:         orderID,
		Amount:          svc.AmountPaise(),
		Currency:        Currency,
		KeyID:           s.Gateway.KeyID(),
		ServiceName:     svc.Title,
		ServiceDuration: svc.Duration,
	}, nil
}

// Lookup rebuilds the order details for a previously created order, used to
// replay idempotent order-creation requests. Returns ErrPaymentNotFound when
// the order id has no payment record.
func (s *OrderService) Lookup(ctx context.Context, orderID string) (*OrderDetails, error) {
	p, err := repo.GetPaymentByOrderID(ctx, s.DB, orderID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}
	keyID := ""
	if s.Gateway != nil {
		keyID = s.Gateway.KeyID()
	}

	duration := 0
	if svc, ok := catalog.Lookup(p.ServiceID); ok {
		duration = svc.Duration
	} else if svc, ok := catalog.LookupByTitle(p.ServiceName); ok {
		duration = svc.Duration
	}

	return &OrderDetails{
		OrderID:         p.OrderID,
		Amount:          p.Amount * 100,
		Currency:        p.Currency,
		KeyID:           keyID,
		ServiceName:     p.ServiceName,
		ServiceDuration: duration,
	}, nil
}
