package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SetRate inserts or replaces the rate of code against base.
func (s *SQLiteStore) SetRate(ctx context.Context, base, code string, rate decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchange_rates (base, currency, rate, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (base, currency) DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`,
		base, code, rate.String(), now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set rate: %w", err)
	}
	return nil
}

// ListRates returns all rates stored against base.
func (s *SQLiteStore) ListRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT currency, rate FROM exchange_rates WHERE base = ?",
		base,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]decimal.Decimal)
	for rows.Next() {
		var code, raw string
		if err := rows.Scan(&code, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("stored rate for %s/%s is corrupt: %w", base, code, err)
		}
		rates[code] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rates: %w", err)
	}
	return rates, nil
}
