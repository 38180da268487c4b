package store

import (
	"context"
	"fmt"

	"github.com/erazemk/closet/internal/model"
)

// InventoryTable is the only table the query interface reads.
const InventoryTable = "inventory"

// Inventory columns addressable through Query.
const (
	ColID            = "id"
	ColName          = "name"
	ColBrand         = "brand"
	ColSize          = "size"
	ColCategory      = "category"
	ColBrandCategory = "brand_category"
	ColCostPrice     = "cost_price"
	ColAskingPrice   = "asking_price"
	ColSalePrice     = "sale_price"
	ColImageURL      = "image_url"
	ColImageURLs     = "image_urls"
	ColStatus        = "status"
	ColClosetDisplay = "closet_display"
	ColNotes         = "notes"
	ColCreatedAt     = "created_at"
	ColSoldAt        = "sold_at"
)

// AllColumns lists every inventory column in table order.
var AllColumns = []string{
	ColID, ColName, ColBrand, ColSize, ColCategory, ColBrandCategory,
	ColCostPrice, ColAskingPrice, ColSalePrice, ColImageURL, ColImageURLs,
	ColStatus, ColClosetDisplay, ColNotes, ColCreatedAt, ColSoldAt,
}

var knownColumns = func() map[string]bool {
	m := make(map[string]bool, len(AllColumns))
	for _, c := range AllColumns {
		m[c] = true
	}
	return m
}()

// Filter is an equality predicate on one column.
type Filter struct {
	Column string
	Value  string
}

// Query describes one read against the inventory table: selected columns,
// one equality filter, one descending sort and a row limit.
type Query struct {
	Table   string
	Columns []string
	Filter  Filter
	OrderBy string
	Limit   int
}

// Validate checks that every identifier in q names a known table or column.
func (q Query) Validate() error {
	if q.Table != InventoryTable {
		return fmt.Errorf("%w: table %q", ErrUnknownIdentifier, q.Table)
	}
	if len(q.Columns) == 0 {
		return fmt.Errorf("%w: no columns selected", ErrUnknownIdentifier)
	}
	for _, c := range q.Columns {
		if !knownColumns[c] {
			return fmt.Errorf("%w: column %q", ErrUnknownIdentifier, c)
		}
	}
	if q.Filter.Column != "" && !knownColumns[q.Filter.Column] {
		return fmt.Errorf("%w: filter column %q", ErrUnknownIdentifier, q.Filter.Column)
	}
	if q.OrderBy != "" && !knownColumns[q.OrderBy] {
		return fmt.Errorf("%w: order column %q", ErrUnknownIdentifier, q.OrderBy)
	}
	if q.Limit < 0 {
		return fmt.Errorf("negative limit %d", q.Limit)
	}
	return nil
}

// Querier runs inventory queries against a store. Rows come back in the
// store's order; columns not selected are left at their zero value.
type Querier interface {
	Select(ctx context.Context, q Query) ([]model.InventoryRow, error)
}
