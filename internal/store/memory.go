package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/erazemk/closet/internal/model"
)

// Memory is an in-memory Querier for tests. It honours filter, order and
// limit the way SQLStore does and counts the queries it serves.
type Memory struct {
	mu    sync.Mutex
	rows  []model.InventoryRow
	calls int
	err   error

	// Delay, if set, is waited before answering each query.
	Delay time.Duration
}

// NewMemory returns a store holding rows.
func NewMemory(rows ...model.InventoryRow) *Memory {
	m := &Memory{}
	m.Put(rows...)
	return m
}

// Put appends rows to the store.
func (m *Memory) Put(rows ...model.InventoryRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rows...)
}

// FailWith makes every following query return err. A nil err clears it.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Select calls served so far.
func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Select implements Querier.
func (m *Memory) Select(ctx context.Context, q Query) ([]model.InventoryRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls++
	failure := m.err
	rows := slices.Clone(m.rows)
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failure != nil {
		return nil, failure
	}

	var out []model.InventoryRow
	for _, r := range rows {
		if q.Filter.Column != "" {
			v, ok := textColumn(r, q.Filter.Column)
			if !ok || v != q.Filter.Value {
				continue
			}
		}
		out = append(out, project(r, q.Columns))
	}

	if q.OrderBy != "" {
		slices.SortStableFunc(out, func(a, b model.InventoryRow) int {
			return compareDesc(a, b, q.OrderBy)
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// textColumn returns the value of a text column, false when it is NULL.
func textColumn(r model.InventoryRow, column string) (string, bool) {
	deref := func(p *string) (string, bool) {
		if p == nil {
			return "", false
		}
		return *p, true
	}
	switch column {
	case ColID:
		return r.ID, true
	case ColName:
		return r.Name, true
	case ColStatus:
		return r.Status, true
	case ColBrand:
		return deref(r.Brand)
	case ColSize:
		return deref(r.Size)
	case ColCategory:
		return deref(r.Category)
	case ColBrandCategory:
		return deref(r.BrandCategory)
	case ColClosetDisplay:
		return deref(r.ClosetDisplay)
	case ColNotes:
		return deref(r.Notes)
	case ColImageURL:
		return deref(r.ImageURL)
	}
	return "", false
}

// timeColumn returns the value of a timestamp column, false when it is NULL.
func timeColumn(r model.InventoryRow, column string) (time.Time, bool) {
	switch column {
	case ColCreatedAt:
		return r.CreatedAt, true
	case ColSoldAt:
		if r.SoldAt == nil {
			return time.Time{}, false
		}
		return *r.SoldAt, true
	}
	return time.Time{}, false
}

// compareDesc orders descending with NULLs last and id as a tie breaker.
func compareDesc(a, b model.InventoryRow, column string) int {
	var c int
	if column == ColCreatedAt || column == ColSoldAt {
		ta, okA := timeColumn(a, column)
		tb, okB := timeColumn(b, column)
		c = nullsLast(okA, okB, func() int { return tb.Compare(ta) })
	} else {
		va, okA := textColumn(a, column)
		vb, okB := textColumn(b, column)
		c = nullsLast(okA, okB, func() int { return strings.Compare(vb, va) })
	}
	if c != 0 {
		return c
	}
	return strings.Compare(b.ID, a.ID)
}

func nullsLast(okA, okB bool, cmp func() int) int {
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return cmp()
}

// project keeps only the selected columns of r.
func project(r model.InventoryRow, columns []string) model.InventoryRow {
	var p model.InventoryRow
	for _, c := range columns {
		switch c {
		case ColID:
			p.ID = r.ID
		case ColName:
			p.Name = r.Name
		case ColBrand:
			p.Brand = r.Brand
		case ColSize:
			p.Size = r.Size
		case ColCategory:
			p.Category = r.Category
		case ColBrandCategory:
			p.BrandCategory = r.BrandCategory
		case ColCostPrice:
			p.CostPrice = r.CostPrice
		case ColAskingPrice:
			p.AskingPrice = r.AskingPrice
		case ColSalePrice:
			p.SalePrice = r.SalePrice
		case ColImageURL:
			p.ImageURL = r.ImageURL
		case ColImageURLs:
			p.ImageURLs = slices.Clone(r.ImageURLs)
		case ColStatus:
			p.Status = r.Status
		case ColClosetDisplay:
			p.ClosetDisplay = r.ClosetDisplay
		case ColNotes:
			p.Notes = r.Notes
		case ColCreatedAt:
			p.CreatedAt = r.CreatedAt
		case ColSoldAt:
			p.SoldAt = r.SoldAt
		}
	}
	return p
}
