package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/serenemind/go-booking-backend/internal/services"
)

func newAccessRouter(access AccessService) *gin.Engine {
	h := newStubHandlers(stubOrderSvc{}, stubVerifySvc{}, access, stubContactSvc{})
	r := gin.New()
	r.GET("/book/access", h.CheckAccess)
	r.POST("/book/consume", h.ConsumeToken)
	return r
}

// ---------- CheckAccess ----------

func TestCheckAccess_NoToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newAccessRouter(stubAccessSvc{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/access", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	var resp AccessDeniedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Authorized || resp.Error != "No booking token provided. Please complete payment first." {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestCheckAccess_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newAccessRouter(stubAccessSvc{check: func(context.Context, string) (string, error) {
		return "", services.ErrTokenInvalid
	}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/access?token=nope", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	var resp AccessDeniedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Authorized || resp.Error != "Invalid or expired booking token. Please complete payment first." {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestCheckAccess_CookieWinsOverQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := newAccessRouter(stubAccessSvc{check: func(_ context.Context, tok string) (string, error) {
		seen = tok
		return "https://cal.example/60min", nil
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/book/access?token=from-query", nil)
	req.AddCookie(&http.Cookie{Name: BookingCookieName, Value: "from-cookie"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if seen != "from-cookie" {
		t.Fatalf("token precedence: service saw %q", seen)
	}
	var resp AccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Authorized || resp.CalLink != "https://cal.example/60min" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestCheckAccess_QueryFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := newAccessRouter(stubAccessSvc{check: func(_ context.Context, tok string) (string, error) {
		seen = tok
		return "https://cal.example/60min", nil
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/access?token=from-query", nil))

	if w.Code != http.StatusOK || seen != "from-query" {
		t.Fatalf("status=%d seen=%q", w.Code, seen)
	}
}

func TestCheckAccess_InternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newAccessRouter(stubAccessSvc{check: func(context.Context, string) (string, error) {
		return "", context.DeadlineExceeded
	}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/access?token=x", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if decodeErr(t, w).Code != ErrCodeInternal {
		t.Fatalf("unexpected code: %s", w.Body.String())
	}
}

// ---------- ConsumeToken ----------

func TestConsumeToken_NoToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newAccessRouter(stubAccessSvc{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/book/consume", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if decodeErr(t, w).Code != ErrCodeUnauthorized {
		t.Fatalf("unexpected code: %s", w.Body.String())
	}
}

func TestConsumeToken_ErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"already consumed", services.ErrTokenConsumed, http.StatusBadRequest, ErrCodeAlreadyConsumed},
		{"invalid", services.ErrTokenInvalid, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAccessRouter(stubAccessSvc{consume: func(context.Context, string) error { return tc.err }})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/book/consume", nil)
			req.AddCookie(&http.Cookie{Name: BookingCookieName, Value: strings.Repeat("a", 64)})
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if got := decodeErr(t, w).Code; got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestConsumeToken_CookieFlow_ClearsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := newAccessRouter(stubAccessSvc{consume: func(_ context.Context, tok string) error {
		seen = tok
		return nil
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/book/consume", nil)
	req.AddCookie(&http.Cookie{Name: BookingCookieName, Value: strings.Repeat("c", 64)})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if seen != strings.Repeat("c", 64) {
		t.Fatalf("service saw %q", seen)
	}
	var resp ConsumeTokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Message != "Booking token consumed" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	// The stale cookie is cleared.
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected clearing cookie, got %d", len(cookies))
	}
	if ck := cookies[0]; ck.Name != BookingCookieName || ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", ck)
	}
}

func TestConsumeToken_BodyFlow_NoCookieTouch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := newAccessRouter(stubAccessSvc{consume: func(_ context.Context, tok string) error {
		seen = tok
		return nil
	}})

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"token":"` + strings.Repeat("d", 64) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/book/consume", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || seen != strings.Repeat("d", 64) {
		t.Fatalf("status=%d seen=%q", w.Code, seen)
	}
	// No cookie was presented, so none is cleared.
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("unexpected Set-Cookie on body flow")
	}
}
