// Package catalog holds the static service catalog: the read-only mapping
// from service identifier to title, description, duration, and price.
// Entries are fixed at deployment time and never created or destroyed at
// runtime; order creation consults this catalog to price a charge.
package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Service is one bookable offering. Price is in INR rupees; the gateway is
// charged Price × 100 paise. DisplayPrice is a pre-rendered en-IN string
// (Indian digit grouping) for the marketing front end.
type Service struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"` // minutes
	Price        int64  `json:"price"`    // INR rupees
	DisplayPrice string `json:"display_price"`
}

// AmountPaise returns the charge amount in the gateway's minor-unit
// convention (paise).
func (s Service) AmountPaise() int64 { return s.Price * 100 }

// enIN renders amounts with Indian digit grouping (e.g. 100000 -> 1,00,000).
var enIN = message.NewPrinter(language.MustParse("en-IN"))

func displayPrice(rupees int64) string {
	return enIN.Sprintf("₹%v", rupees)
}

func service(id, title, description string, duration int, price int64) Service {
	return Service{
		ID:           id,
		Title:        title,
		Description:  description,
		Duration:     duration,
		Price:        price,
		DisplayPrice: displayPrice(price),
	}
}

// services is the deployed catalog. Keep ids stable: they are referenced by
// the front end and recorded in gateway order notes.
var services = []Service{
	service("individual-therapy", "One-on-One Therapy",
		"Personalized individual sessions to explore your thoughts and feelings in a safe space.", 60, 1000),
	service("anxiety-stress", "Anxiety & Stress Management",
		"Evidence-based strategies to manage anxiety, reduce stress, and regain control.", 60, 1000),
	service("relationship-counseling", "Relationship Counseling",
		"Navigate complex relationship dynamics and improve communication with your partner.", 60, 1000),
	service("teen-young-adult", "Teen/Young Adult Therapy",
		"Specialized support for the unique challenges faced by teenagers and young adults.", 60, 1000),
	service("online-session", "Online Session",
		"Flexible therapy sessions from the comfort of your own home via secure video call.", 60, 1000),
}

// All returns the full catalog in deployment order. The returned slice is a
// copy; callers may not mutate catalog entries.
func All() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

// Lookup returns the service with the given id, or false when the id does not
// match any catalog entry.
func Lookup(id string) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// LookupByTitle returns the service with the given title. Payments store the
// title snapshot rather than the id in older rows, so replay paths resolve
// duration through this helper.
func LookupByTitle(title string) (Service, bool) {
	for _, s := range services {
		if s.Title == title {
			return s, true
		}
	}
	return Service{}, false
}
