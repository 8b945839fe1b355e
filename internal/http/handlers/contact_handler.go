// Contact HTTP handlers.
//
// This file exposes REST endpoints for contact-form submissions:
//   - POST /contact   (create)
//   - GET  /contacts  (list, paginated, ETag support)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/domain"
	"github.com/serenemind/go-booking-backend/internal/repo"
	"github.com/serenemind/go-booking-backend/internal/services"
	"github.com/serenemind/go-booking-backend/internal/utils"
)

// SubmitContactRequest is the JSON payload of the contact form.
type SubmitContactRequest struct {
	Name    string `json:"name" binding:"required" example:"Asha Verma"`
	Email   string `json:"email" binding:"required" example:"asha@example.com"`
	Phone   string `json:"phone" binding:"required" example:"+91 98765 43210"`
	Message string `json:"message" binding:"required" example:"I would like to know more about online sessions."`
}

// SubmitContactResponse acknowledges a stored submission.
type SubmitContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListContactsResponse wraps a page of submissions and pagination information.
type ListContactsResponse struct {
	Contacts   []domain.Contact `json:"contacts"`
	Pagination Pagination       `json:"pagination"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// SubmitContact godoc
// @ID          submitContact
// @Summary     Submit the contact form
// @Description Stores a contact-form submission for follow-up.
// @Tags        Contact
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SubmitContactRequest  true  "Contact payload"
//
// @Success     201  {object}  handlers.SubmitContactResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or malformed fields"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /contact [post]
func (h *Handlers) SubmitContact(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email, phone and message are required")
		return
	}

	_, err := h.contactSvc.Submit(c.Request.Context(), req.Name, req.Email, req.Phone, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrInvalidContact) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email, phone and message are required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to store contact submission")
		return
	}

	ok(c, http.StatusCreated, SubmitContactResponse{Success: true, Message: "Thanks for reaching out. We will get back to you soon."})
}

// ListContacts godoc
// @ID          listContacts
// @Summary     List contact submissions (paginated)
// @Description Returns a page of submissions, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Contact
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListContactsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /contacts [get]
func (h *Handlers) ListContacts(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okCast := h.contactSvc.(*services.ContactService); okCast {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ContactsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"contacts:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.contactSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListContactsResponse{
		Contacts: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
