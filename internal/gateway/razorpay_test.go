package gateway

import (
	"errors"
	"strings"
	"testing"
)

func TestNew_RejectsBadCredentials(t *testing.T) {
	cases := []struct {
		name   string
		keyID  string
		secret string
	}{
		{"empty both", "", ""},
		{"empty secret", "rzp_test_abc123", ""},
		{"empty key", "", "secret"},
		{"whitespace key", "   ", "secret"},
		{"wrong prefix", "sk_test_abc123", "secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.keyID, tc.secret)
			if !errors.Is(err, ErrMisconfigured) || c != nil {
				t.Fatalf("expected ErrMisconfigured, got client=%v err=%v", c, err)
			}
		})
	}
}

func TestNew_AcceptsValidPair(t *testing.T) {
	c, err := New("rzp_test_abc123", "secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.KeyID() != "rzp_test_abc123" {
		t.Fatalf("KeyID = %q", c.KeyID())
	}
}

func TestNew_TrimsWhitespace(t *testing.T) {
	c, err := New("  rzp_test_abc123  ", " secret ")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.KeyID() != "rzp_test_abc123" {
		t.Fatalf("KeyID = %q", c.KeyID())
	}
}

func TestSign_KnownVector(t *testing.T) {
	// HMAC-SHA256("secret", "order_1|pay_1"), lowercase hex.
	got := Sign("secret", "order_1", "pay_1")
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d (%q)", len(got), got)
	}
	if got != strings.ToLower(got) {
		t.Fatalf("expected lowercase hex, got %q", got)
	}
	// Deterministic for identical inputs.
	if again := Sign("secret", "order_1", "pay_1"); again != got {
		t.Fatalf("Sign not deterministic: %q vs %q", got, again)
	}
}

func TestVerifySignature_RoundTrip(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")
	if !VerifySignature("secret", "order_1", "pay_1", sig) {
		t.Fatalf("expected round-trip signature to verify")
	}
}

func TestVerifySignature_RejectsTampering(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")

	// One character off.
	flipped := []byte(sig)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	if VerifySignature("secret", "order_1", "pay_1", string(flipped)) {
		t.Fatalf("expected tampered signature to fail")
	}

	// Wrong secret.
	if VerifySignature("other", "order_1", "pay_1", sig) {
		t.Fatalf("expected wrong-secret signature to fail")
	}
	// Different payment id.
	if VerifySignature("secret", "order_1", "pay_2", sig) {
		t.Fatalf("expected wrong-payment signature to fail")
	}
	// Empty signature.
	if VerifySignature("secret", "order_1", "pay_1", "") {
		t.Fatalf("expected empty signature to fail")
	}
}

func TestClient_VerifySignature_UsesOwnSecret(t *testing.T) {
	c, err := New("rzp_test_abc123", "topsecret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sig := Sign("topsecret", "order_9", "pay_9")
	if !c.VerifySignature("order_9", "pay_9", sig) {
		t.Fatalf("client should verify signature made with its secret")
	}
	if c.VerifySignature("order_9", "pay_9", Sign("wrong", "order_9", "pay_9")) {
		t.Fatalf("client should reject signature made with another secret")
	}
}
