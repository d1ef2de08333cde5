// README: Vehicle service; validation and owner-scoped insert/update.
package vehicle

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"tabihi/internal/types"
)

var ErrNotFound = types.NotFound("vehicle")

type Service struct {
	store   *Store
	timeout time.Duration
}

func NewService(store *Store, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{store: store, timeout: timeout}
}

// List returns the owner's vehicles, most recently updated first.
func (s *Service) List(ctx context.Context, owner types.ID) ([]Vehicle, error) {
	if owner == "" {
		return nil, types.Invalid("user_id", "user_id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, types.Unavailable("vehicle store", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, owner, id types.ID) (Vehicle, error) {
	if owner == "" {
		return Vehicle{}, types.Invalid("user_id", "user_id is required")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return Vehicle{}, types.Invalid("vehicle_id", "vehicle_id must be a UUID")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	v, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return Vehicle{}, storeError(err)
	}
	return *v, nil
}

// Efficiency is the estimator's view of a saved vehicle.
func (s *Service) Efficiency(ctx context.Context, owner, id types.ID) (float64, error) {
	v, err := s.Get(ctx, owner, id)
	if err != nil {
		return 0, err
	}
	return v.Efficiency, nil
}

func (s *Service) Save(ctx context.Context, cmd SaveCommand) (Vehicle, error) {
	if cmd.Owner == "" {
		return Vehicle{}, types.Invalid("user_id", "user_id is required")
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return Vehicle{}, types.Invalid("name", "name is required")
	}
	fuel, err := ParseFuelType(cmd.FuelType)
	if err != nil {
		return Vehicle{}, err
	}
	if math.IsNaN(cmd.Efficiency) || math.IsInf(cmd.Efficiency, 0) || cmd.Efficiency <= 0 {
		return Vehicle{}, types.Invalid("efficiency_kml", "must be greater than zero")
	}
	if cmd.ID != "" {
		if _, err := uuid.Parse(string(cmd.ID)); err != nil {
			return Vehicle{}, types.Invalid("id", "id must be a UUID")
		}
	}

	v := Vehicle{
		ID:         cmd.ID,
		UserID:     cmd.Owner,
		Name:       name,
		FuelType:   fuel,
		Efficiency: cmd.Efficiency,
		Notes:      strings.TrimSpace(cmd.Notes),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var saved *Vehicle
	if v.ID == "" {
		v.ID = types.ID(uuid.NewString())
		saved, err = s.store.Insert(ctx, v)
	} else {
		saved, err = s.store.Update(ctx, v)
	}
	if err != nil {
		return Vehicle{}, storeError(err)
	}
	return *saved, nil
}

func storeError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return types.Unavailable("vehicle store", err)
}
