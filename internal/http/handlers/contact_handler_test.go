package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/serenemind/go-booking-backend/internal/domain"
	"github.com/serenemind/go-booking-backend/internal/services"
)

func newContactRouter(contact ContactService) *gin.Engine {
	h := newStubHandlers(stubOrderSvc{}, stubVerifySvc{}, stubAccessSvc{}, contact)
	r := gin.New()
	r.POST("/contact", h.SubmitContact)
	r.GET("/contacts", h.ListContacts)
	return r
}

// ---------- helpers ----------

func TestClampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=-5&page_size=9999", nil)
	p, ps := clampPagination(c)
	if p != 1 || ps != 100 {
		t.Fatalf("bounds: p=%d ps=%d", p, ps)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=&page_size=abc", nil)
	p, ps = clampPagination(c)
	if p != 1 || ps != 20 {
		t.Fatalf("defaults: p=%d ps=%d", p, ps)
	}
}

// ---------- SubmitContact ----------

func TestSubmitContact_BadRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newContactRouter(stubContactSvc{})

	// Binding failure: required field absent.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString(`{"name":"A","email":"a@b.com","phone":"+91 1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest || decodeErr(t, w).Code != ErrCodeBadRequest {
		t.Fatalf("missing field: %d %s", w.Code, w.Body.String())
	}

	// Service-level validation failure (e.g. malformed email).
	r = newContactRouter(stubContactSvc{submit: func(context.Context, string, string, string, string) (*domain.Contact, error) {
		return nil, services.ErrInvalidContact
	}})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString(`{"name":"A","email":"not-an-email","phone":"+91 1","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest || decodeErr(t, w).Code != ErrCodeBadRequest {
		t.Fatalf("invalid contact: %d %s", w.Code, w.Body.String())
	}
}

func TestSubmitContact_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newContactRouter(stubContactSvc{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString(`{"name":"A","email":"a@b.com","phone":"+91 1","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp SubmitContactResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Message == "" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestSubmitContact_InternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newContactRouter(stubContactSvc{submit: func(context.Context, string, string, string, string) (*domain.Contact, error) {
		return nil, context.DeadlineExceeded
	}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString(`{"name":"A","email":"a@b.com","phone":"+91 1","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError || decodeErr(t, w).Code != ErrCodeInternal {
		t.Fatalf("internal: %d %s", w.Code, w.Body.String())
	}
}

// ---------- ListContacts ----------

func TestListContacts_PaginationMetadata(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newContactRouter(stubContactSvc{listPage: func(_ context.Context, page, pageSize int) ([]domain.Contact, int64, error) {
		if page != 2 || pageSize != 2 {
			return nil, 0, fmt.Errorf("unexpected page args %d/%d", page, pageSize)
		}
		return []domain.Contact{{ID: "c3"}, {ID: "c4"}}, 5, nil
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts?page=2&page_size=2", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp ListContactsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Contacts) != 2 {
		t.Fatalf("contacts: %+v", resp.Contacts)
	}
	p := resp.Pagination
	if p.Page != 2 || p.PageSize != 2 || p.Total != 5 || p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("pagination: %+v", p)
	}
}

func TestListContacts_ListError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newContactRouter(stubContactSvc{listPage: func(context.Context, int, int) ([]domain.Contact, int64, error) {
		return nil, 0, fmt.Errorf("boom")
	}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts", nil))

	if w.Code != http.StatusInternalServerError || decodeErr(t, w).Code != ErrCodeListFailed {
		t.Fatalf("list error: %d %s", w.Code, w.Body.String())
	}
}

// ETag flow needs the concrete service so the handler can reach the DB.
func TestListContacts_ETagAnd304(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := newHandlerDB(t)
	svc := services.NewContactService(db)
	r := newContactRouter(svc)

	submit := func(name string) {
		w := httptest.NewRecorder()
		body := bytes.NewBufferString(fmt.Sprintf(`{"name":%q,"email":"a@b.com","phone":"+91 1","message":"hi"}`, name))
		req := httptest.NewRequest(http.MethodPost, "/contact", body)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed submit: %d", w.Code)
		}
	}
	submit("P1")
	submit("P2")

	// First list: 200 with a weak ETag.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag == "" || etag[:2] != `W/` {
		t.Fatalf("etag: %q", etag)
	}

	// Same state + If-None-Match: 304, empty body.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Fatalf("revalidation: %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("304 body: %q", w.Body.String())
	}

	// Changed state invalidates the tag.
	submit("P3")
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stale etag: %d", w.Code)
	}
	if w.Header().Get("ETag") == etag {
		t.Fatalf("etag did not change after write")
	}
}
