package catalog

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/erazemk/closet/internal/model"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestToPublicItemNullFields(t *testing.T) {
	row := model.InventoryRow{ID: "42", Name: "Jacket", Status: model.StatusForSale}

	got := ToPublicItem(row)
	want := model.PublicInventoryItem{
		ID:            "42",
		Name:          "Jacket",
		ImageURLs:     []string{},
		Status:        model.StatusForSale,
		ClosetDisplay: model.DisplayNFS,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToPublicItem mismatch (-want +got):\n%s", diff)
	}
	if got.AskingPrice != nil {
		t.Errorf("expected absent asking price, got %v", *got.AskingPrice)
	}
}

func TestToPublicItemPassesValuesThrough(t *testing.T) {
	row := model.InventoryRow{
		ID:            "7",
		Name:          "Silk Shirt",
		Brand:         strPtr("Equipment"),
		Size:          strPtr("S"),
		Category:      strPtr("tops"),
		BrandCategory: strPtr("designer"),
		CostPrice:     strPtr("12.00"),
		AskingPrice:   strPtr("64.50"),
		ImageURL:      strPtr("https://img/1.jpg"),
		ImageURLs:     []string{"https://img/1.jpg", "https://img/2.jpg"},
		Status:        model.StatusForSale,
		ClosetDisplay: strPtr(model.DisplayPublic),
		Notes:         strPtr("tiny mark on cuff"),
		CreatedAt:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	want := model.PublicInventoryItem{
		ID:            "7",
		Name:          "Silk Shirt",
		Brand:         strPtr("Equipment"),
		Size:          strPtr("S"),
		AskingPrice:   floatPtr(64.5),
		ImageURL:      strPtr("https://img/1.jpg"),
		ImageURLs:     []string{"https://img/1.jpg", "https://img/2.jpg"},
		Category:      strPtr("tops"),
		BrandCategory: strPtr("designer"),
		Status:        model.StatusForSale,
		ClosetDisplay: model.DisplayPublic,
		Notes:         strPtr("tiny mark on cuff"),
	}
	if diff := cmp.Diff(want, ToPublicItem(row)); diff != "" {
		t.Errorf("ToPublicItem mismatch (-want +got):\n%s", diff)
	}
}

func TestClosetDisplayDefaultTable(t *testing.T) {
	tests := []struct {
		display *string
		want    string
	}{
		{nil, model.DisplayNFS},
		{strPtr(model.DisplayPublic), model.DisplayPublic},
		{strPtr(model.DisplayHidden), model.DisplayHidden},
		{strPtr(model.DisplayNFS), model.DisplayNFS},
	}

	for _, tt := range tests {
		got := ToPublicItem(model.InventoryRow{ID: "1", ClosetDisplay: tt.display}).ClosetDisplay
		if got != tt.want {
			t.Errorf("closet display %v mapped to %q, want %q", tt.display, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   *string
		want *float64
	}{
		{nil, nil},
		{strPtr("0"), floatPtr(0)},
		{strPtr("19.99"), floatPtr(19.99)},
		{strPtr(" 40 "), floatPtr(40)},
		{strPtr(""), nil},
		{strPtr("n/a"), nil},
		{strPtr("NaN"), nil},
		{strPtr("Inf"), nil},
		{strPtr("-Infinity"), nil},
		{strPtr("1e400"), nil},
	}

	for _, tt := range tests {
		got := parsePrice(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("parsePrice(%v) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestPrimaryImageNotSubstituted(t *testing.T) {
	row := model.InventoryRow{ID: "1", ImageURLs: []string{"https://img/a.jpg"}}

	if got := ToPublicItem(row).ImageURL; got != nil {
		t.Errorf("expected no primary image, got %q", *got)
	}
	if got := ToSoldItem(row).ImageURL; got != nil {
		t.Errorf("expected no primary image on sold item, got %q", *got)
	}
}

func TestToSoldItem(t *testing.T) {
	soldAt := time.Date(2026, 6, 2, 15, 0, 0, 0, time.UTC)
	row := model.InventoryRow{
		ID:            "9",
		Name:          "Loafers",
		Brand:         strPtr("G.H. Bass"),
		AskingPrice:   strPtr("55"),
		SalePrice:     strPtr("50.00"),
		BrandCategory: strPtr("heritage"),
		ClosetDisplay: strPtr(model.DisplayPublic),
		Status:        model.StatusSold,
		SoldAt:        &soldAt,
	}

	want := model.SoldInventoryItem{
		ID:          "9",
		Name:        "Loafers",
		Brand:       strPtr("G.H. Bass"),
		AskingPrice: floatPtr(55),
		SalePrice:   floatPtr(50),
		ImageURLs:   []string{},
		Status:      model.StatusSold,
		SoldAt:      &soldAt,
	}
	if diff := cmp.Diff(want, ToSoldItem(row)); diff != "" {
		t.Errorf("ToSoldItem mismatch (-want +got):\n%s", diff)
	}
}

func TestMappingIsIdempotentAndDetached(t *testing.T) {
	row := model.InventoryRow{
		ID:          "3",
		Name:        "Cardigan",
		Brand:       strPtr("COS"),
		AskingPrice: strPtr("30"),
		ImageURLs:   []string{"https://img/c.jpg"},
	}

	first := ToPublicItem(row)
	second := ToPublicItem(row)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("mapping not idempotent (-first +second):\n%s", diff)
	}

	// The projection doesn't alias the row.
	*row.Brand = "changed"
	row.ImageURLs[0] = "changed"
	if *first.Brand != "COS" || first.ImageURLs[0] != "https://img/c.jpg" {
		t.Errorf("projection changed with its row: %+v", first)
	}
}
