package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/serenemind/go-booking-backend/internal/domain"
)

func newTokenRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("token_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Writers collide in the concurrency test; a single connection plus a
	// busy timeout keeps SQLite from surfacing SQLITE_BUSY.
	db.Exec("PRAGMA busy_timeout=5000;")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(&domain.Payment{}, &domain.BookingToken{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedPayment(t *testing.T, db *gorm.DB, orderID string) *domain.Payment {
	t.Helper()
	p, err := CreatePayment(context.Background(), db, orderID, 1000, "INR", "s", "S", "", "")
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}

func TestCreateBookingToken_AtMostOnePerPayment(t *testing.T) {
	db := newTokenRepoDB(t)
	p := seedPayment(t, db, "order_t1")

	exp := time.Now().UTC().Add(24 * time.Hour)
	tok, err := CreateBookingToken(context.Background(), db, p.ID, strings.Repeat("a", 64), exp)
	if err != nil {
		t.Fatalf("CreateBookingToken: %v", err)
	}
	if tok.ID == "" || tok.PaymentID != p.ID {
		t.Fatalf("unexpected token fields: %+v", tok)
	}

	_, err = CreateBookingToken(context.Background(), db, p.ID, strings.Repeat("b", 64), exp)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for second token on same payment, got %v", err)
	}
}

func TestCreateBookingToken_DuplicateTokenString(t *testing.T) {
	db := newTokenRepoDB(t)
	p1 := seedPayment(t, db, "order_t2a")
	p2 := seedPayment(t, db, "order_t2b")

	exp := time.Now().UTC().Add(time.Hour)
	raw := strings.Repeat("c", 64)
	if _, err := CreateBookingToken(context.Background(), db, p1.ID, raw, exp); err != nil {
		t.Fatalf("first token: %v", err)
	}
	if _, err := CreateBookingToken(context.Background(), db, p2.ID, raw, exp); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused token string, got %v", err)
	}
}

func TestGetValidBookingToken_ExpiryBoundary(t *testing.T) {
	db := newTokenRepoDB(t)
	p := seedPayment(t, db, "order_t3")

	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	raw := strings.Repeat("d", 64)
	if _, err := CreateBookingToken(context.Background(), db, p.ID, raw, exp); err != nil {
		t.Fatalf("CreateBookingToken: %v", err)
	}

	// Strictly before expiry: valid.
	if _, err := GetValidBookingToken(context.Background(), db, raw, exp.Add(-time.Second)); err != nil {
		t.Fatalf("token should be valid before expiry: %v", err)
	}
	// Exactly at expiry: rejected.
	if _, err := GetValidBookingToken(context.Background(), db, raw, exp); !errors.Is(err, ErrNotFound) {
		t.Fatalf("token at exact expiry should be rejected, got %v", err)
	}
	// After expiry: rejected.
	if _, err := GetValidBookingToken(context.Background(), db, raw, exp.Add(time.Second)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired token should be rejected, got %v", err)
	}
}

func TestGetBookingTokenByPayment(t *testing.T) {
	db := newTokenRepoDB(t)
	p := seedPayment(t, db, "order_t4")

	if _, err := GetBookingTokenByPayment(context.Background(), db, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before mint, got %v", err)
	}

	raw := strings.Repeat("e", 64)
	created, err := CreateBookingToken(context.Background(), db, p.ID, raw, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateBookingToken: %v", err)
	}
	got, err := GetBookingTokenByPayment(context.Background(), db, p.ID)
	if err != nil {
		t.Fatalf("GetBookingTokenByPayment: %v", err)
	}
	if got.ID != created.ID || got.Token != raw {
		t.Fatalf("unexpected token row: %+v", got)
	}
}

func TestConsumeBookingToken_Lifecycle(t *testing.T) {
	db := newTokenRepoDB(t)
	p := seedPayment(t, db, "order_t5")

	raw := strings.Repeat("f", 64)
	if _, err := CreateBookingToken(context.Background(), db, p.ID, raw, time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("CreateBookingToken: %v", err)
	}

	now := time.Now().UTC()
	if err := ConsumeBookingToken(context.Background(), db, raw, now); err != nil {
		t.Fatalf("first consume: %v", err)
	}

	got, err := GetBookingToken(context.Background(), db, raw)
	if err != nil {
		t.Fatalf("GetBookingToken: %v", err)
	}
	if got.ConsumedAt == nil {
		t.Fatalf("expected ConsumedAt to be set")
	}
	if got.Valid(now) {
		t.Fatalf("consumed token must not report valid")
	}

	// Second consume distinguishes "already consumed".
	if err := ConsumeBookingToken(context.Background(), db, raw, now.Add(time.Second)); !errors.Is(err, ErrConsumed) {
		t.Fatalf("expected ErrConsumed on second consume, got %v", err)
	}
}

func TestConsumeBookingToken_MissingAndExpired(t *testing.T) {
	db := newTokenRepoDB(t)
	p := seedPayment(t, db, "order_t6")

	if err := ConsumeBookingToken(context.Background(), db, strings.Repeat("0", 64), time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown token, got %v", err)
	}

	exp := time.Now().UTC().Add(-time.Minute)
	raw := strings.Repeat("1", 64)
	if _, err := CreateBookingToken(context.Background(), db, p.ID, raw, exp); err != nil {
		t.Fatalf("CreateBookingToken: %v", err)
	}
	if err := ConsumeBookingToken(context.Background(), db, raw, time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired token, got %v", err)
	}
}

func TestConsumeBookingToken_ConcurrentExactlyOneWins(t *testing.T) {
	db := newTokenRepoDB(t)
	p := seedPayment(t, db, "order_t7")

	raw := strings.Repeat("2", 64)
	if _, err := CreateBookingToken(context.Background(), db, p.ID, raw, time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("CreateBookingToken: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ConsumeBookingToken(context.Background(), db, raw, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConsumed):
		default:
			t.Fatalf("attempt %d: unexpected error %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one successful consume, got %d", wins)
	}
}
