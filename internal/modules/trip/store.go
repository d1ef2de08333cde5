// README: Trip store backed by PostgreSQL; insert-only.
package trip

import (
	"context"

	"tabihi/internal/infra"
	"tabihi/internal/types"
)

type Store struct {
	db infra.Querier
}

func NewStore(db infra.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, t Trip) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (
			id, user_id, origin, destination, distance_km, duration_min,
			toll_est, fuel_cost, rent_cost, park_cost, headcount, total, per_person, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING created_at`,
		string(t.ID), string(t.UserID), t.Origin, t.Destination, t.DistanceKm, t.DurationMin,
		int64(t.TollEst), int64(t.FuelCost), int64(t.RentCost), int64(t.ParkCost),
		t.Headcount, int64(t.Total), int64(t.PerPerson),
	)
	if err := row.Scan(&t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListRecent(ctx context.Context, owner types.ID, limit int) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, user_id, origin, destination, distance_km, duration_min,
			toll_est, fuel_cost, rent_cost, park_cost, headcount, total, per_person, created_at
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, string(owner), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Trip{}
	for rows.Next() {
		var t Trip
		var toll, fuel, rent, park, total, perPerson int64
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Origin, &t.Destination, &t.DistanceKm, &t.DurationMin,
			&toll, &fuel, &rent, &park, &t.Headcount, &total, &perPerson, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.TollEst, t.FuelCost, t.RentCost, t.ParkCost = types.Yen(toll), types.Yen(fuel), types.Yen(rent), types.Yen(park)
		t.Total, t.PerPerson = types.Yen(total), types.Yen(perPerson)
		out = append(out, t)
	}
	return out, rows.Err()
}
