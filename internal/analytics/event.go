// Package analytics forwards storefront events to ad-platform sinks.
// Delivery is best effort: sinks never report errors to their callers.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/closet/internal/model"
)

// Currency is the only currency events are reported in.
const Currency = "USD"

// Name is a standard pixel event name.
type Name string

// Event names.
const (
	PageView         Name = "PageView"
	ViewContent      Name = "ViewContent"
	AddToCart        Name = "AddToCart"
	InitiateCheckout Name = "InitiateCheckout"
	Purchase         Name = "Purchase"
)

// ParseName validates an event name received from a client.
func ParseName(s string) (Name, bool) {
	switch n := Name(s); n {
	case PageView, ViewContent, AddToCart, InitiateCheckout, Purchase:
		return n, true
	}
	return "", false
}

// Event is one analytics event.
type Event struct {
	ID          string    `json:"event_id"`
	Name        Name      `json:"event_name"`
	Time        time.Time `json:"event_time"`
	ContentIDs  []string  `json:"content_ids,omitempty"`
	ContentName string    `json:"content_name,omitempty"`
	Value       float64   `json:"value"`
	Currency    string    `json:"currency"`
	SourceURL   string    `json:"event_source_url,omitempty"`
}

// Sink receives events.
type Sink interface {
	Track(ctx context.Context, e Event)
}

// New returns an event with a fresh ID, the current time and USD currency.
func New(name Name) Event {
	return Event{
		ID:       uuid.NewString(),
		Name:     name,
		Time:     time.Now().UTC(),
		Currency: Currency,
	}
}

// PageViewEvent reports a page view of url.
func PageViewEvent(url string) Event {
	e := New(PageView)
	e.SourceURL = url
	return e
}

// ViewContentEvent reports a listing being opened.
func ViewContentEvent(item model.PublicInventoryItem) Event {
	return itemEvent(ViewContent, item)
}

// AddToCartEvent reports a listing added to the cart.
func AddToCartEvent(item model.PublicInventoryItem) Event {
	return itemEvent(AddToCart, item)
}

// InitiateCheckoutEvent reports a checkout of items; the value is their
// total asking price.
func InitiateCheckoutEvent(items []model.PublicInventoryItem) Event {
	e := New(InitiateCheckout)
	for _, item := range items {
		e.ContentIDs = append(e.ContentIDs, item.ID)
		if item.AskingPrice != nil {
			e.Value += *item.AskingPrice
		}
	}
	return e
}

// PurchaseEvent reports a completed sale, valued at the sale price when
// known and the asking price otherwise.
func PurchaseEvent(item model.SoldInventoryItem) Event {
	e := New(Purchase)
	e.ContentIDs = []string{item.ID}
	e.ContentName = item.Name
	switch {
	case item.SalePrice != nil:
		e.Value = *item.SalePrice
	case item.AskingPrice != nil:
		e.Value = *item.AskingPrice
	}
	return e
}

func itemEvent(name Name, item model.PublicInventoryItem) Event {
	e := New(name)
	e.ContentIDs = []string{item.ID}
	e.ContentName = item.Name
	if item.AskingPrice != nil {
		e.Value = *item.AskingPrice
	}
	return e
}
