package catalog

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/erazemk/closet/internal/model"
)

// DefaultClosetDisplay is used when a row has no closet_display. It is the
// only defaulted field: rendering branches on it and cannot handle absence.
const DefaultClosetDisplay = model.DisplayNFS

// ToPublicItem projects a row for active listings. Absent values stay
// absent; a missing primary image is not filled from the image list.
func ToPublicItem(row model.InventoryRow) model.PublicInventoryItem {
	display := DefaultClosetDisplay
	if row.ClosetDisplay != nil {
		display = *row.ClosetDisplay
	}

	return model.PublicInventoryItem{
		ID:            row.ID,
		Name:          row.Name,
		Brand:         cloneString(row.Brand),
		Size:          cloneString(row.Size),
		AskingPrice:   parsePrice(row.AskingPrice),
		ImageURL:      cloneString(row.ImageURL),
		ImageURLs:     imageList(row.ImageURLs),
		Category:      cloneString(row.Category),
		BrandCategory: cloneString(row.BrandCategory),
		Status:        row.Status,
		ClosetDisplay: display,
		Notes:         cloneString(row.Notes),
	}
}

// ToSoldItem projects a row for sold history.
func ToSoldItem(row model.InventoryRow) model.SoldInventoryItem {
	item := model.SoldInventoryItem{
		ID:          row.ID,
		Name:        row.Name,
		Brand:       cloneString(row.Brand),
		Size:        cloneString(row.Size),
		AskingPrice: parsePrice(row.AskingPrice),
		SalePrice:   parsePrice(row.SalePrice),
		ImageURL:    cloneString(row.ImageURL),
		ImageURLs:   imageList(row.ImageURLs),
		Category:    cloneString(row.Category),
		Status:      row.Status,
		Notes:       cloneString(row.Notes),
	}
	if row.SoldAt != nil {
		soldAt := *row.SoldAt
		item.SoldAt = &soldAt
	}
	return item
}

// parsePrice converts a decimal price. NULL, unparseable and non-finite
// values (NUMERIC NaN, stray "Inf" text) are absent, never zero.
func parsePrice(p *string) *float64 {
	if p == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*p), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

// imageList copies the ordered image URLs; a row without images has an
// empty list.
func imageList(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return slices.Clone(urls)
}
