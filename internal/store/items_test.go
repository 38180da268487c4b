package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/closet/internal/db"
	"github.com/erazemk/closet/internal/model"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	return New(db.NewTestDB(t), db.SQLite)
}

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.CreateItem(ctx, NewItem{
		Name:        "Wool Coat",
		Brand:       strPtr("Acne Studios"),
		Size:        strPtr("M"),
		AskingPrice: floatPtr(120.5),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Name != "Wool Coat" {
		t.Errorf("expected name 'Wool Coat', got %q", item.Name)
	}
	if item.Status != model.StatusForSale {
		t.Errorf("expected status 'for_sale', got %q", item.Status)
	}
	if item.AskingPrice == nil || *item.AskingPrice != "120.5" {
		t.Errorf("expected asking price 120.5, got %v", item.AskingPrice)
	}
	if item.CostPrice != nil {
		t.Errorf("expected nil cost price, got %q", *item.CostPrice)
	}
	if item.ClosetDisplay != nil {
		t.Errorf("expected nil closet display, got %q", *item.ClosetDisplay)
	}
	if item.SoldAt != nil {
		t.Error("expected nil sold_at on new item")
	}
}

func TestGetMissingItem(t *testing.T) {
	s := newTestStore(t)

	item, err := s.GetItem(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil item, got %+v", item)
	}
}

func TestMarkSoldAndRelist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.CreateItem(ctx, NewItem{Name: "Boots", AskingPrice: floatPtr(80)})
	soldAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sold, err := s.MarkSold(ctx, item.ID, floatPtr(75), soldAt)
	if err != nil {
		t.Fatalf("MarkSold: %v", err)
	}
	if !sold {
		t.Error("expected MarkSold to report the transition to sold")
	}

	got, _ := s.GetItem(ctx, item.ID)
	if got.Status != model.StatusSold {
		t.Errorf("expected status sold, got %q", got.Status)
	}
	if got.SalePrice == nil || *got.SalePrice != "75" {
		t.Errorf("expected sale price 75, got %v", got.SalePrice)
	}
	if got.SoldAt == nil || !got.SoldAt.Equal(soldAt) {
		t.Errorf("expected sold_at %v, got %v", soldAt, got.SoldAt)
	}

	if err := s.UpdateItemStatus(ctx, item.ID, model.StatusForSale); err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	got, _ = s.GetItem(ctx, item.ID)
	if got.SalePrice != nil || got.SoldAt != nil {
		t.Errorf("expected sale fields cleared, got %v / %v", got.SalePrice, got.SoldAt)
	}
}

func TestMarkSoldTwice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.CreateItem(ctx, NewItem{Name: "Boots"})
	soldAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if sold, err := s.MarkSold(ctx, item.ID, floatPtr(75), soldAt); err != nil || !sold {
		t.Fatalf("first MarkSold = %v, %v; want true, nil", sold, err)
	}

	// A correction to the price is kept, but it is not a second sale.
	sold, err := s.MarkSold(ctx, item.ID, floatPtr(70), time.Time{})
	if err != nil {
		t.Fatalf("second MarkSold: %v", err)
	}
	if sold {
		t.Error("expected re-marking a sold item not to report a transition")
	}

	got, _ := s.GetItem(ctx, item.ID)
	if got.SalePrice == nil || *got.SalePrice != "70" {
		t.Errorf("expected corrected sale price 70, got %v", got.SalePrice)
	}
	if got.SoldAt == nil || !got.SoldAt.Equal(soldAt) {
		t.Errorf("expected sold_at kept at %v, got %v", soldAt, got.SoldAt)
	}
}

func TestUpdateItemStatusRejectsSold(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.CreateItem(ctx, NewItem{Name: "Scarf"})
	if err := s.UpdateItemStatus(ctx, item.ID, model.StatusSold); err == nil {
		t.Error("expected error moving to sold without MarkSold")
	}
	if err := s.UpdateItemStatus(ctx, item.ID, "lost"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestWritesOnMissingItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpdateItemStatus(ctx, "missing", model.StatusOnHold); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateItemStatus: expected ErrNotFound, got %v", err)
	}
	if _, err := s.MarkSold(ctx, "missing", nil, time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkSold: expected ErrNotFound, got %v", err)
	}
	if err := s.SetClosetDisplay(ctx, "missing", strPtr(model.DisplayPublic)); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetClosetDisplay: expected ErrNotFound, got %v", err)
	}
}

func TestSetClosetDisplay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.CreateItem(ctx, NewItem{Name: "Blazer"})
	if err := s.SetClosetDisplay(ctx, item.ID, strPtr(model.DisplayPublic)); err != nil {
		t.Fatalf("SetClosetDisplay: %v", err)
	}
	got, _ := s.GetItem(ctx, item.ID)
	if got.ClosetDisplay == nil || *got.ClosetDisplay != model.DisplayPublic {
		t.Errorf("expected display public, got %v", got.ClosetDisplay)
	}

	if err := s.SetClosetDisplay(ctx, item.ID, nil); err != nil {
		t.Fatalf("clearing display: %v", err)
	}
	got, _ = s.GetItem(ctx, item.ID)
	if got.ClosetDisplay != nil {
		t.Errorf("expected cleared display, got %q", *got.ClosetDisplay)
	}

	if err := s.SetClosetDisplay(ctx, item.ID, strPtr("private")); err == nil {
		t.Error("expected error for invalid display")
	}
}

func TestListBrandsMergesSpellings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.CreateItem(ctx, NewItem{Name: "Coat", Brand: strPtr("Acne Studios")})
	s.CreateItem(ctx, NewItem{Name: "Jeans", Brand: strPtr("acne studios")})
	s.CreateItem(ctx, NewItem{Name: "Tee", Brand: strPtr("Carhartt")})
	s.CreateItem(ctx, NewItem{Name: "Hat"})
	s.CreateItem(ctx, NewItem{Name: "Bag", Brand: strPtr("Prada"), Status: model.StatusDraft})

	brands, err := s.ListBrands(ctx)
	if err != nil {
		t.Fatalf("ListBrands: %v", err)
	}
	if len(brands) != 2 {
		t.Fatalf("expected 2 brands, got %+v", brands)
	}
	if brands[0].Slug != "acne-studios" || brands[0].Count != 2 || brands[0].Name != "Acne Studios" {
		t.Errorf("unexpected first brand %+v", brands[0])
	}
	if brands[1].Slug != "carhartt" || brands[1].Count != 1 {
		t.Errorf("unexpected second brand %+v", brands[1])
	}
}

func TestAddItemImage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.CreateItem(ctx, NewItem{Name: "Photo Item"})

	first, err := s.AddItemImage(ctx, item.ID, []byte("full-1"), []byte("thumb-1"), "image/jpeg")
	if err != nil {
		t.Fatalf("AddItemImage: %v", err)
	}
	second, err := s.AddItemImage(ctx, item.ID, []byte("full-2"), []byte("thumb-2"), "image/jpeg")
	if err != nil {
		t.Fatalf("AddItemImage: %v", err)
	}

	got, _ := s.GetItem(ctx, item.ID)
	if got.ImageURL == nil || *got.ImageURL != ImageURL(first) {
		t.Errorf("expected primary image %q, got %v", ImageURL(first), got.ImageURL)
	}
	if len(got.ImageURLs) != 2 || got.ImageURLs[1] != ImageURL(second) {
		t.Errorf("unexpected image list %v", got.ImageURLs)
	}

	data, mime, err := s.GetImage(ctx, first, true)
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if string(data) != "thumb-1" || mime != "image/jpeg" {
		t.Errorf("expected thumbnail bytes, got %q (%s)", data, mime)
	}

	if _, err := s.AddItemImage(ctx, "missing", []byte("x"), []byte("x"), "image/jpeg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}
}
