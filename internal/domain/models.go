// Package domain defines the persistence models for payments, booking tokens,
// and contact-form submissions. These types are mapped with GORM and form the
// core data layer of the booking backend.
package domain

import "time"

// Payment status lifecycle values. The lifecycle is linear: a record is
// inserted as StatusCreated and moves to StatusPaid once the gateway callback
// is verified. A charge that is never completed stays StatusCreated.
const (
	StatusCreated = "created"
	StatusPaid    = "paid"
)

// Payment represents one attempt to pay for one service instance. The
// gateway's order identifier is the external lookup key used during callback
// verification; the service name and amount are denormalized snapshots taken
// at order-creation time, since catalog entries may change later.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - OrderID: the gateway-side order identifier (unique).
//   - PaymentID / Signature: filled in once the charge completes and the
//     callback is verified; empty until then.
//   - Amount: price in INR rupees (the gateway is charged Amount × 100 paise).
//   - ServiceID / ServiceName: catalog snapshot for auditability.
//   - Email / Phone: optional contact details supplied at checkout.
//   - Status: StatusCreated or StatusPaid.
type Payment struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	OrderID     string    `json:"order_id"     gorm:"column:razorpay_order_id;type:varchar(64);not null;uniqueIndex:ux_payments_order"`
	PaymentID   string    `json:"payment_id,omitempty" gorm:"column:razorpay_payment_id;type:varchar(64)"`
	Signature   string    `json:"-"            gorm:"column:razorpay_signature;type:varchar(128)"`
	Amount      int64     `json:"amount"       gorm:"not null"`
	Currency    string    `json:"currency"     gorm:"type:varchar(8);not null;default:'INR'"`
	Status      string    `json:"status"       gorm:"type:varchar(16);not null;default:'created';check:status IN ('created','paid')"`
	ServiceID   string    `json:"service_id"   gorm:"type:varchar(64);not null"`
	ServiceName string    `json:"service_name" gorm:"type:varchar(255);not null"`
	Email       string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	Phone       string    `json:"phone,omitempty" gorm:"type:varchar(32)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }

// Paid reports whether the payment has been verified.
func (p *Payment) Paid() bool { return p.Status == StatusPaid }

// BookingToken is a single-use capability granting access to the external
// scheduling widget. The token string is an unguessable 64-character hex
// value handed to the client as a bearer credential (cookie or URL
// parameter); the row here is the authoritative state.
//
// A token is valid iff it exists, now < ExpiresAt, and ConsumedAt is nil.
// Consumption is one-way: ConsumedAt is set exactly once by an atomic
// conditional update. The unique index on PaymentID enforces at-most-one
// token per verified payment.
type BookingToken struct {
	ID         string     `json:"id"         gorm:"type:char(36);primaryKey"`
	PaymentID  string     `json:"payment_id" gorm:"type:char(36);not null;uniqueIndex:ux_tokens_payment"`
	Token      string     `json:"token"      gorm:"type:char(64);not null;uniqueIndex:ux_tokens_token"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null;index"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	// Payment is the verified payment this token descends from.
	Payment Payment `json:"-" gorm:"foreignKey:PaymentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for BookingToken.
func (BookingToken) TableName() string { return "booking_tokens" }

// Valid reports whether the token admits access at the given instant:
// unexpired (strictly before ExpiresAt) and not yet consumed.
func (t *BookingToken) Valid(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}

// Contact is a contact-form submission from the marketing site.
type Contact struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"    gorm:"type:varchar(255);not null"`
	Email     string    `json:"email"   gorm:"type:varchar(255);not null"`
	Phone     string    `json:"phone"   gorm:"type:varchar(32);not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Contact.
func (Contact) TableName() string { return "contacts" }
