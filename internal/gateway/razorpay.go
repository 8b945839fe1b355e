// Package gateway wraps the external payment gateway (Razorpay). It owns the
// two trust-sensitive operations of the booking flow: creating a charge
// intent (order) and verifying the keyed signature the gateway returns after
// a completed charge.
//
// The client is constructed once at startup from credentials and injected
// into the services that need it; there is no process-global instance.
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
)

// KeyIDPrefix is the shape every valid Razorpay key id starts with. Keys
// without it are treated as misconfiguration rather than sent upstream.
const KeyIDPrefix = "rzp_"

// ErrMisconfigured indicates that gateway credentials are absent or do not
// match the expected key shape.
var ErrMisconfigured = errors.New("payment gateway credentials missing or malformed")

// Client is a thin wrapper over the Razorpay SDK holding the credential pair.
// The zero value is not usable; construct with New.
type Client struct {
	keyID  string
	secret string
	api    *razorpay.Client
}

// New validates the credential pair and returns a ready Client.
// It returns ErrMisconfigured when either credential is empty or the key id
// does not start with "rzp_".
func New(keyID, keySecret string) (*Client, error) {
	keyID = strings.TrimSpace(keyID)
	keySecret = strings.TrimSpace(keySecret)
	if keyID == "" || keySecret == "" {
		return nil, ErrMisconfigured
	}
	if !strings.HasPrefix(keyID, KeyIDPrefix) {
		return nil, ErrMisconfigured
	}
	return &Client{
		keyID:  keyID,
		secret: keySecret,
		api:    razorpay.NewClient(keyID, keySecret),
	}, nil
}

// KeyID returns the public key identifier, safe to echo to clients so they
// can render the checkout widget. The secret is never exposed.
func (c *Client) KeyID() string { return c.keyID }

// CreateOrder asks the gateway for a charge intent and returns the gateway
// order id. Amount is in paise (the gateway's minor-unit convention); notes
// tag the order with service metadata for auditability.
//
// The underlying SDK does not accept a context; ctx is reserved for a future
// transport that does.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	body, err := c.api.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return "", errors.New("razorpay order create: response missing order id")
	}
	return id, nil
}

// VerifySignature checks a gateway callback signature against this client's
// secret. See the package-level VerifySignature for the construction.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(c.secret, orderID, paymentID, signature)
}

// Sign computes the expected callback signature: the lowercase hex digest of
// HMAC-SHA256 over "orderID|paymentID" keyed with the gateway secret.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the expected digest for
// (orderID, paymentID) under secret. The comparison is constant-time; this is
// the sole authenticity gate for payment callbacks, so it must not leak
// timing information.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
