package catalog

import "testing"

func TestAll_ReturnsCopy(t *testing.T) {
	a := All()
	if len(a) == 0 {
		t.Fatalf("catalog must not be empty")
	}
	a[0].Title = "mutated"
	if All()[0].Title == "mutated" {
		t.Fatalf("All must return a copy, not the backing slice")
	}
}

func TestAll_EntriesComplete(t *testing.T) {
	for _, s := range All() {
		if s.ID == "" || s.Title == "" || s.Description == "" {
			t.Fatalf("incomplete entry: %+v", s)
		}
		if s.Duration <= 0 || s.Price <= 0 {
			t.Fatalf("non-positive duration/price: %+v", s)
		}
		if s.DisplayPrice == "" {
			t.Fatalf("missing display price: %+v", s)
		}
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("individual-therapy")
	if !ok {
		t.Fatalf("expected individual-therapy to exist")
	}
	if s.Title != "One-on-One Therapy" || s.Duration != 60 || s.Price != 1000 {
		t.Fatalf("unexpected entry: %+v", s)
	}

	if _, ok := Lookup("nope"); ok {
		t.Fatalf("unknown id must not resolve")
	}
	if _, ok := Lookup(""); ok {
		t.Fatalf("empty id must not resolve")
	}
}

func TestLookupByTitle(t *testing.T) {
	s, ok := LookupByTitle("Online Session")
	if !ok || s.ID != "online-session" {
		t.Fatalf("unexpected result: %+v ok=%v", s, ok)
	}
	if _, ok := LookupByTitle("Nope"); ok {
		t.Fatalf("unknown title must not resolve")
	}
}

func TestAmountPaise(t *testing.T) {
	s, _ := Lookup("anxiety-stress")
	if got := s.AmountPaise(); got != 100000 {
		t.Fatalf("expected 100000 paise for ₹1000, got %d", got)
	}
}

func TestDisplayPrice_IndianGrouping(t *testing.T) {
	if got := displayPrice(1000); got != "₹1,000" {
		t.Fatalf("displayPrice(1000) = %q", got)
	}
	if got := displayPrice(100000); got != "₹1,00,000" {
		t.Fatalf("displayPrice(100000) = %q", got)
	}
}
