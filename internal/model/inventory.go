package model

import "time"

// InventoryRow is one persisted record of the inventory table. Nullable
// columns are pointers so absence survives the trip from the database.
// Prices keep the store's decimal text form; catalog converts them.
type InventoryRow struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Brand         *string    `json:"brand"`
	Size          *string    `json:"size"`
	Category      *string    `json:"category"`
	BrandCategory *string    `json:"brand_category"`
	CostPrice     *string    `json:"cost_price"`
	AskingPrice   *string    `json:"asking_price"`
	SalePrice     *string    `json:"sale_price"`
	ImageURL      *string    `json:"image_url"`
	ImageURLs     []string   `json:"image_urls"`
	Status        string     `json:"status"`
	ClosetDisplay *string    `json:"closet_display"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	SoldAt        *time.Time `json:"sold_at"`
}

// Inventory statuses.
const (
	StatusForSale = "for_sale"
	StatusSold    = "sold"
	StatusOnHold  = "on_hold"
	StatusDraft   = "draft"
	StatusDonated = "donated"
)

// ValidStatus reports whether s is a known inventory status.
func ValidStatus(s string) bool {
	switch s {
	case StatusForSale, StatusSold, StatusOnHold, StatusDraft, StatusDonated:
		return true
	}
	return false
}

// Closet display classifications.
const (
	DisplayPublic = "public"
	DisplayHidden = "hidden"
	DisplayNFS    = "nfs"
)

// ValidDisplay reports whether d is a known closet display classification.
func ValidDisplay(d string) bool {
	return d == DisplayPublic || d == DisplayHidden || d == DisplayNFS
}

// PublicInventoryItem is the listing-facing projection of an InventoryRow.
type PublicInventoryItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Brand         *string  `json:"brand,omitempty"`
	Size          *string  `json:"size,omitempty"`
	AskingPrice   *float64 `json:"asking_price,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	ImageURLs     []string `json:"image_urls"`
	Category      *string  `json:"category,omitempty"`
	BrandCategory *string  `json:"brand_category,omitempty"`
	Status        string   `json:"status"`
	ClosetDisplay string   `json:"closet_display"`
	Notes         *string  `json:"notes,omitempty"`
}

// SoldInventoryItem is the sold-history projection of an InventoryRow.
type SoldInventoryItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Brand       *string    `json:"brand,omitempty"`
	Size        *string    `json:"size,omitempty"`
	AskingPrice *float64   `json:"asking_price,omitempty"`
	SalePrice   *float64   `json:"sale_price,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	ImageURLs   []string   `json:"image_urls"`
	Category    *string    `json:"category,omitempty"`
	Status      string     `json:"status"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// Brand is one entry of the brand filter.
type Brand struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
