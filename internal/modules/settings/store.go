// README: Settings store backed by PostgreSQL; one row per owner.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tabihi/internal/infra"
	"tabihi/internal/modules/pricing"
	"tabihi/internal/types"
)

type Store struct {
	db infra.Querier
}

func NewStore(db infra.Querier) *Store {
	return &Store{db: db}
}

// Get returns ErrNotFound when the owner has no row.
func (s *Store) Get(ctx context.Context, owner types.ID) (*Settings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, fuel_price, toll_coeffs_json, rounding_mode, updated_at
		FROM settings
		WHERE user_id = $1`, string(owner),
	)
	var st Settings
	var coeffs []byte
	var mode string
	err := row.Scan(&st.UserID, &st.FuelPrice, &coeffs, &mode, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(coeffs, &st.TollCoeffs); err != nil {
		return nil, fmt.Errorf("decode toll_coeffs_json: %w", err)
	}
	st.RoundingMode = pricing.RoundingMode(mode)
	return &st, nil
}

// Upsert overwrites the owner's single row.
func (s *Store) Upsert(ctx context.Context, st Settings) (*Settings, error) {
	coeffs, err := json.Marshal(st.TollCoeffs)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO settings (user_id, fuel_price, toll_coeffs_json, rounding_mode, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			fuel_price = EXCLUDED.fuel_price,
			toll_coeffs_json = EXCLUDED.toll_coeffs_json,
			rounding_mode = EXCLUDED.rounding_mode,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at`,
		string(st.UserID),
		st.FuelPrice,
		coeffs,
		string(st.RoundingMode),
	)
	if err := row.Scan(&st.UpdatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}
