package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ImageURL is the public path an image is served from.
func ImageURL(id string) string {
	return "/api/images/" + id
}

// AddItemImage stores a processed photo and appends its URL to the item.
func (s *SQLStore) AddItemImage(ctx context.Context, itemID string, data, thumbnail []byte, mime string) (string, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if err := s.appendImageURL(ctx, tx, itemID, ImageURL(id)); err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO images (id, item_id, mime, data, thumbnail) VALUES (?, ?, ?, ?, ?)`),
		id, itemID, mime, data, thumbnail,
	)
	if err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing image: %w", err)
	}
	return id, nil
}

// GetImage returns image bytes and MIME type, or nil data if the image
// doesn't exist.
func (s *SQLStore) GetImage(ctx context.Context, id string, thumbnail bool) ([]byte, string, error) {
	column := "data"
	if thumbnail {
		column = "thumbnail"
	}

	var data []byte
	var mime string
	err := s.DB.QueryRowContext(ctx, s.rebind(
		`SELECT `+column+`, mime FROM images WHERE id = ?`), id,
	).Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}
	return data, mime, nil
}
