// Booking access HTTP handlers.
//
// This file exposes the endpoints that gate the external scheduling widget:
//   - GET  /book/access   (validate a booking token, return the widget URL)
//   - POST /book/consume  (mark the token used after the slot is picked)
//
// The access check is intentionally read-only so a client can reload the
// scheduling page any number of times before finalizing; consumption is the
// separate, explicit, one-way step.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/serenemind/go-booking-backend/internal/services"
)

// AccessResponse is returned by the access gate on success.
type AccessResponse struct {
	Authorized bool   `json:"authorized"`
	CalLink    string `json:"calLink"`
}

// AccessDeniedResponse is returned by the access gate when no valid token is
// presented. Unlike the generic envelope, it keeps the authorized flag the
// scheduling page switches on.
type AccessDeniedResponse struct {
	Authorized bool   `json:"authorized"`
	Error      string `json:"error"`
}

// ConsumeTokenRequest optionally carries the token in the body for clients
// that cannot send the cookie.
type ConsumeTokenRequest struct {
	Token string `json:"token"`
}

// ConsumeTokenResponse confirms a consumed token.
type ConsumeTokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// bookingToken extracts the presented token: the HTTP-only cookie wins, the
// "token" query parameter is the fallback for token-in-URL flows.
func bookingToken(c *gin.Context) string {
	if tok, err := c.Cookie(BookingCookieName); err == nil && tok != "" {
		return tok
	}
	return c.Query("token")
}

// CheckAccess godoc
// @ID          checkAccess
// @Summary     Validate booking access
// @Description Validates the presented booking token (cookie or ?token=) without consuming it and returns the scheduling widget URL.
// @Tags        Booking
// @Produce     json
//
// @Param       token  query  string  false "Booking token (fallback when the cookie is absent)"
//
// @Success     200  {object}  handlers.AccessResponse
// @Failure     401  {object}  handlers.AccessDeniedResponse  "Missing, invalid, expired, or consumed token"
// @Failure     500  {object}  handlers.ErrorResponse         "Internal error"
// @Router      /book/access [get]
func (h *Handlers) CheckAccess(c *gin.Context) {
	tok := bookingToken(c)
	if tok == "" {
		ok(c, http.StatusUnauthorized, AccessDeniedResponse{
			Authorized: false,
			Error:      "No booking token provided. Please complete payment first.",
		})
		return
	}

	link, err := h.accessSvc.Check(c.Request.Context(), tok)
	if err != nil {
		if errors.Is(err, services.ErrTokenInvalid) {
			ok(c, http.StatusUnauthorized, AccessDeniedResponse{
				Authorized: false,
				Error:      "Invalid or expired booking token. Please complete payment first.",
			})
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to check booking access")
		return
	}

	ok(c, http.StatusOK, AccessResponse{Authorized: true, CalLink: link})
}

// ConsumeToken godoc
// @ID          consumeToken
// @Summary     Consume a booking token
// @Description Marks the booking token used (cookie or JSON body). Of N concurrent attempts exactly one succeeds; the token cannot be reused afterwards.
// @Tags        Booking
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ConsumeTokenRequest  false  "Token (fallback when the cookie is absent)"
//
// @Success     200  {object}  handlers.ConsumeTokenResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Token already consumed"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing, invalid, or expired token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /book/consume [post]
func (h *Handlers) ConsumeToken(c *gin.Context) {
	tok, fromCookie := "", false
	if v, err := c.Cookie(BookingCookieName); err == nil && v != "" {
		tok, fromCookie = v, true
	} else {
		var req ConsumeTokenRequest
		_ = c.ShouldBindJSON(&req)
		tok = req.Token
	}
	if tok == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no booking token provided")
		return
	}

	err := h.accessSvc.Consume(c.Request.Context(), tok)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrTokenConsumed):
		fail(c, http.StatusBadRequest, ErrCodeAlreadyConsumed, "booking token already consumed")
		return
	case errors.Is(err, services.ErrTokenInvalid):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired booking token")
		return
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to consume booking token")
		return
	}

	// Clear the cookie so a stale token is not presented on the next visit.
	if fromCookie {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(BookingCookieName, "", -1, "/", "", h.opts.CookieSecure, true)
	}

	ok(c, http.StatusOK, ConsumeTokenResponse{Success: true, Message: "Booking token consumed"})
}
