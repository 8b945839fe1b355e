// Package services – ContactService
//
// Contact-form submissions from the marketing site. Validation is minimal:
// the four fields are required and the email must look like an address.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/domain"
	"github.com/serenemind/go-booking-backend/internal/repo"
)

// ContactService persists and lists contact-form submissions.
type ContactService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewContactService constructs a ContactService.
func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{DB: db}
}

// Submit validates and stores a submission. All fields are required;
// a malformed email yields ErrInvalidContact.
func (s *ContactService) Submit(ctx context.Context, name, email, phone, message string) (*domain.Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	message = strings.TrimSpace(message)

	if name == "" || email == "" || phone == "" || message == "" {
		return nil, ErrInvalidContact
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return nil, ErrInvalidContact
	}

	return repo.CreateContact(ctx, s.DB, name, email, phone, message)
}

// ListPage returns a page of submissions, newest first, and the total count.
// It applies defaults for invalid page/pageSize.
func (s *ContactService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Contact, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountContacts(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Contact{}, 0, nil
	}

	items, err := repo.ListContactsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
