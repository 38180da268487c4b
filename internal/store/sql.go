package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/erazemk/closet/internal/db"
	"github.com/erazemk/closet/internal/model"
)

// SQLStore is the inventory store backed by a SQL database.
type SQLStore struct {
	DB      *sql.DB
	Dialect db.Dialect
}

// New returns a store for an open database.
func New(database *sql.DB, dialect db.Dialect) *SQLStore {
	return &SQLStore{DB: database, Dialect: dialect}
}

// rebind rewrites ? placeholders into $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.Dialect != db.Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// buildSelect renders q as SQL. Identifiers come from the validated allow
// list; the filter value is always bound.
func (s *SQLStore) buildSelect(q Query) (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.Table)

	if q.Filter.Column != "" {
		b.WriteString(" WHERE ")
		b.WriteString(q.Filter.Column)
		b.WriteString(" = ?")
		args = append(args, q.Filter.Value)
	}

	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
		b.WriteString(" DESC NULLS LAST, id DESC")
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	return s.rebind(b.String()), args
}

// Select implements Querier.
func (s *SQLStore) Select(ctx context.Context, q Query) ([]model.InventoryRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	query, args := s.buildSelect(q)
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	defer rows.Close()

	var result []model.InventoryRow
	for rows.Next() {
		var sr scanRow
		dest := make([]any, len(q.Columns))
		for i, c := range q.Columns {
			dest[i] = sr.dest(c)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		row, err := sr.finish()
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading inventory rows: %w", err)
	}
	return result, nil
}

// scanRow collects one row's columns before image_urls is decoded.
type scanRow struct {
	row       model.InventoryRow
	imageURLs sql.NullString
}

func (sr *scanRow) dest(column string) any {
	r := &sr.row
	switch column {
	case ColID:
		return &r.ID
	case ColName:
		return &r.Name
	case ColBrand:
		return &r.Brand
	case ColSize:
		return &r.Size
	case ColCategory:
		return &r.Category
	case ColBrandCategory:
		return &r.BrandCategory
	case ColCostPrice:
		return &r.CostPrice
	case ColAskingPrice:
		return &r.AskingPrice
	case ColSalePrice:
		return &r.SalePrice
	case ColImageURL:
		return &r.ImageURL
	case ColImageURLs:
		return &sr.imageURLs
	case ColStatus:
		return &r.Status
	case ColClosetDisplay:
		return &r.ClosetDisplay
	case ColNotes:
		return &r.Notes
	case ColCreatedAt:
		return &r.CreatedAt
	case ColSoldAt:
		return &r.SoldAt
	}
	// Unreachable after Validate.
	return new(any)
}

func (sr *scanRow) finish() (model.InventoryRow, error) {
	if sr.imageURLs.Valid && sr.imageURLs.String != "" {
		if err := json.Unmarshal([]byte(sr.imageURLs.String), &sr.row.ImageURLs); err != nil {
			return model.InventoryRow{}, fmt.Errorf("decoding image_urls of item %s: %w", sr.row.ID, err)
		}
	}
	return sr.row, nil
}
