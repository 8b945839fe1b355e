// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for contact-form
// submissions.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenemind/go-booking-backend/internal/domain"
)

// CreateContact inserts a new contact-form submission.
func CreateContact(ctx context.Context, db *gorm.DB, name, email, phone, message string) (*domain.Contact, error) {
	c := &domain.Contact{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CountContacts returns the total number of submissions.
func CountContacts(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Contact{}).
		Count(&total).Error
	return total, err
}

// ListContactsPage returns a paginated slice of submissions, newest first.
// Use CountContacts to obtain the total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListContactsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Contact, error) {
	var out []domain.Contact
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
