package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/erazemk/closet/internal/model"
)

// NewItem holds the intake fields of an inventory item.
type NewItem struct {
	Name          string
	Brand         *string
	Size          *string
	Category      *string
	BrandCategory *string
	CostPrice     *float64
	AskingPrice   *float64
	Status        string
	ClosetDisplay *string
	Notes         *string

	// CreatedAt defaults to now.
	CreatedAt time.Time
}

// MaxPrice is the largest price a NUMERIC(10, 2) column holds.
const MaxPrice = 99999999.99

// price renders a price for a NUMERIC column.
func price(p *float64) any {
	if p == nil {
		return nil
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

// text unwraps an optional text value for binding.
func text(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// CreateItem inserts a new inventory item with a fresh UUID.
func (s *SQLStore) CreateItem(ctx context.Context, in NewItem) (*model.InventoryRow, error) {
	if in.Status == "" {
		in.Status = model.StatusForSale
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	id := uuid.NewString()

	_, err := s.DB.ExecContext(ctx, s.rebind(
		`INSERT INTO inventory (id, name, brand, size, category, brand_category,
		                        cost_price, asking_price, status, closet_display, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, in.Name, text(in.Brand), text(in.Size), text(in.Category), text(in.BrandCategory),
		price(in.CostPrice), price(in.AskingPrice), in.Status, text(in.ClosetDisplay), text(in.Notes),
		in.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID, or nil if it doesn't exist.
func (s *SQLStore) GetItem(ctx context.Context, id string) (*model.InventoryRow, error) {
	var sr scanRow
	dest := make([]any, len(AllColumns))
	for i, c := range AllColumns {
		dest[i] = sr.dest(c)
	}

	err := s.DB.QueryRowContext(ctx, s.rebind(
		`SELECT id, name, brand, size, category, brand_category, cost_price, asking_price,
		        sale_price, image_url, image_urls, status, closet_display, notes, created_at, sold_at
		 FROM inventory WHERE id = ?`), id,
	).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	row, err := sr.finish()
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateItemStatus moves an item to a status other than sold. Leaving the
// sold status clears the sale price and date.
func (s *SQLStore) UpdateItemStatus(ctx context.Context, id, status string) error {
	if status == model.StatusSold {
		return fmt.Errorf("use MarkSold to record a sale")
	}
	if !model.ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	result, err := s.DB.ExecContext(ctx, s.rebind(
		`UPDATE inventory SET status = ?, sale_price = NULL, sold_at = NULL WHERE id = ?`),
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return requireRow(result)
}

// MarkSold records the sale of an item and reports whether this call moved
// it into sold. Re-marking a sold item only updates the given sale price
// and date; a zero soldAt keeps the recorded one.
func (s *SQLStore) MarkSold(ctx context.Context, id string, salePrice *float64, soldAt time.Time) (bool, error) {
	var soldArg any
	if !soldAt.IsZero() {
		soldArg = soldAt.UTC()
	}

	result, err := s.DB.ExecContext(ctx, s.rebind(
		`UPDATE inventory SET status = ?, sale_price = ?, sold_at = ?
		 WHERE id = ? AND status <> ?`),
		model.StatusSold, price(salePrice), orNow(soldArg), id, model.StatusSold,
	)
	if err != nil {
		return false, fmt.Errorf("marking item sold: %w", err)
	}
	if err := requireRow(result); err == nil {
		return true, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	result, err = s.DB.ExecContext(ctx, s.rebind(
		`UPDATE inventory SET sale_price = COALESCE(?, sale_price), sold_at = COALESCE(?, sold_at)
		 WHERE id = ? AND status = ?`),
		price(salePrice), soldArg, id, model.StatusSold,
	)
	if err != nil {
		return false, fmt.Errorf("updating sale: %w", err)
	}
	return false, requireRow(result)
}

func orNow(t any) any {
	if t == nil {
		return time.Now().UTC()
	}
	return t
}

// SetClosetDisplay sets the display classification of an item. A nil
// display clears it.
func (s *SQLStore) SetClosetDisplay(ctx context.Context, id string, display *string) error {
	if display != nil && !model.ValidDisplay(*display) {
		return fmt.Errorf("invalid closet display %q", *display)
	}

	result, err := s.DB.ExecContext(ctx, s.rebind(
		`UPDATE inventory SET closet_display = ? WHERE id = ?`),
		text(display), id,
	)
	if err != nil {
		return fmt.Errorf("setting closet display: %w", err)
	}
	return requireRow(result)
}

// ListBrands returns the brands of for-sale items with their counts, keyed
// by slug. Spellings that share a slug are merged under the first name.
func (s *SQLStore) ListBrands(ctx context.Context) ([]model.Brand, error) {
	rows, err := s.DB.QueryContext(ctx, s.rebind(
		`SELECT brand, COUNT(*) FROM inventory
		 WHERE status = ? AND brand IS NOT NULL AND brand <> ''
		 GROUP BY brand ORDER BY brand`), model.StatusForSale,
	)
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	defer rows.Close()

	var brands []model.Brand
	index := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scanning brand: %w", err)
		}
		key := slug.Make(name)
		if i, ok := index[key]; ok {
			brands[i].Count += count
			continue
		}
		index[key] = len(brands)
		brands = append(brands, model.Brand{Name: name, Slug: key, Count: count})
	}
	return brands, rows.Err()
}

// appendImageURL adds url to an item's image list inside tx, making it the
// primary image when none is set.
func (s *SQLStore) appendImageURL(ctx context.Context, tx *sql.Tx, id, url string) error {
	var raw sql.NullString
	err := tx.QueryRowContext(ctx, s.rebind(
		`SELECT image_urls FROM inventory WHERE id = ?`), id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading image urls: %w", err)
	}

	var urls []string
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &urls); err != nil {
			return fmt.Errorf("decoding image urls: %w", err)
		}
	}
	urls = append(urls, url)

	encoded, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("encoding image urls: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		`UPDATE inventory SET image_urls = ?, image_url = COALESCE(image_url, ?) WHERE id = ?`),
		string(encoded), url, id,
	)
	if err != nil {
		return fmt.Errorf("updating image urls: %w", err)
	}
	return nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
