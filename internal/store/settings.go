package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GetTokenSecret retrieves the intake token signing secret.
// If no secret exists, it generates one, stores it, and returns it.
// Uses insert-if-absent + re-SELECT to avoid a race on concurrent startup.
func (s *SQLStore) GetTokenSecret(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := s.DB.ExecContext(ctx, s.rebind(
		`INSERT INTO settings (key, value) VALUES ('token_secret', ?) ON CONFLICT (key) DO NOTHING`),
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing token_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = s.DB.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'token_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying token_secret: %w", err)
	}

	return secret, nil
}
