package analytics

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/erazemk/closet/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
		ok   bool
	}{
		{"PageView", PageView, true},
		{"ViewContent", ViewContent, true},
		{"AddToCart", AddToCart, true},
		{"InitiateCheckout", InitiateCheckout, true},
		{"Purchase", Purchase, true},
		{"pageview", "", false},
		{"Lead", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseName(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseName(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewEvent(t *testing.T) {
	a := New(PageView)
	b := New(PageView)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("event IDs = %q, %q, want distinct non-empty", a.ID, b.ID)
	}
	if a.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", a.Currency)
	}
	if a.Time.IsZero() {
		t.Error("Time is zero")
	}
}

func TestItemEvents(t *testing.T) {
	jacket := model.PublicInventoryItem{ID: "a", Name: "Jacket", AskingPrice: floatPtr(42)}
	noPrice := model.PublicInventoryItem{ID: "b", Name: "Scarf"}

	e := ViewContentEvent(jacket)
	if e.Name != ViewContent || e.Value != 42 || e.ContentName != "Jacket" {
		t.Errorf("ViewContentEvent = %+v", e)
	}
	if diff := cmp.Diff([]string{"a"}, e.ContentIDs); diff != "" {
		t.Errorf("ContentIDs mismatch (-want +got):\n%s", diff)
	}

	e = AddToCartEvent(noPrice)
	if e.Name != AddToCart || e.Value != 0 {
		t.Errorf("AddToCartEvent = %+v, want value 0", e)
	}

	e = InitiateCheckoutEvent([]model.PublicInventoryItem{jacket, noPrice, jacket})
	if e.Value != 84 {
		t.Errorf("InitiateCheckoutEvent value = %v, want 84", e.Value)
	}
	if diff := cmp.Diff([]string{"a", "b", "a"}, e.ContentIDs); diff != "" {
		t.Errorf("ContentIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestPurchaseEvent(t *testing.T) {
	tests := []struct {
		name string
		item model.SoldInventoryItem
		want float64
	}{
		{"sale price", model.SoldInventoryItem{ID: "a", AskingPrice: floatPtr(50), SalePrice: floatPtr(40)}, 40},
		{"asking fallback", model.SoldInventoryItem{ID: "a", AskingPrice: floatPtr(50)}, 50},
		{"no price", model.SoldInventoryItem{ID: "a"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := PurchaseEvent(tt.item)
			if e.Name != Purchase || e.Value != tt.want || e.Currency != Currency {
				t.Errorf("PurchaseEvent = %+v, want value %v", e, tt.want)
			}
		})
	}
}

func TestMulti(t *testing.T) {
	a := NewRecorder(4)
	b := NewRecorder(4)
	sink := Multi{a, Nop{}, b}

	e := PageViewEvent("https://example.com/")
	sink.Track(context.Background(), e)

	for i, r := range []*Recorder{a, b} {
		select {
		case got := <-r.Events():
			if got.ID != e.ID {
				t.Errorf("recorder %d got event %q, want %q", i, got.ID, e.ID)
			}
		default:
			t.Errorf("recorder %d got no event", i)
		}
	}
}

func TestRecorderDropsWhenFull(t *testing.T) {
	r := NewRecorder(1)
	r.Track(context.Background(), New(PageView))
	r.Track(context.Background(), New(PageView))

	if got := len(r.Events()); got != 1 {
		t.Errorf("buffered events = %d, want 1", got)
	}
}
