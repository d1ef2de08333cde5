// README: Vehicle store backed by PostgreSQL.
package vehicle

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"tabihi/internal/infra"
	"tabihi/internal/types"
)

const selectVehicle = `
	SELECT id::text, user_id, name, fuel_type, efficiency_kml, COALESCE(notes, ''), updated_at
	FROM vehicles`

type Store struct {
	db infra.Querier
}

func NewStore(db infra.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context, owner types.ID) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, selectVehicle+`
		WHERE user_id = $1
		ORDER BY updated_at DESC`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, owner, id types.ID) (*Vehicle, error) {
	row := s.db.QueryRow(ctx, selectVehicle+`
		WHERE id = $1 AND user_id = $2`, string(id), string(owner))
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (s *Store) Insert(ctx context.Context, v Vehicle) (*Vehicle, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO vehicles (id, user_id, name, fuel_type, efficiency_kml, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING updated_at`,
		string(v.ID), string(v.UserID), v.Name, string(v.FuelType), v.Efficiency, v.Notes,
	)
	if err := row.Scan(&v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Update only touches rows owned by v.UserID; any other row reads as ErrNotFound.
func (s *Store) Update(ctx context.Context, v Vehicle) (*Vehicle, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE vehicles
		SET name = $3, fuel_type = $4, efficiency_kml = $5, notes = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`,
		string(v.ID), string(v.UserID), v.Name, string(v.FuelType), v.Efficiency, v.Notes,
	)
	err := row.Scan(&v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	var fuel string
	if err := row.Scan(&v.ID, &v.UserID, &v.Name, &fuel, &v.Efficiency, &v.Notes, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.FuelType = FuelType(fuel)
	return &v, nil
}
