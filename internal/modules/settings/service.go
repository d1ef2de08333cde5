// README: Settings resolver (stored row or defaults) and validated upsert.
package settings

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"tabihi/internal/cache"
	"tabihi/internal/modules/pricing"
	"tabihi/internal/types"
)

var ErrNotFound = types.NotFound("settings")

const defaultStoreTimeout = 3 * time.Second

type Service struct {
	store   *Store
	cache   *cache.Cache
	timeout time.Duration
	logger  zerolog.Logger
}

func NewService(store *Store, c *cache.Cache, timeout time.Duration, logger zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &Service{store: store, cache: c, timeout: timeout, logger: logger}
}

// Resolve returns the owner's stored settings, or Defaults when none were saved.
// Store failures other than a missing row are returned as ErrUnavailable.
func (s *Service) Resolve(ctx context.Context, owner types.ID) (Settings, error) {
	if owner == "" {
		return Defaults(""), nil
	}

	var cached Settings
	if ok, err := s.cache.GetJSON(ctx, cacheKey(owner), &cached); err != nil {
		s.logger.Warn().Err(err).Str("user_id", string(owner)).Msg("settings cache read failed")
	} else if ok {
		return cached, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	st, err := s.store.Get(callCtx, owner)
	if errors.Is(err, ErrNotFound) {
		return Defaults(owner), nil
	}
	if err != nil {
		return Settings{}, types.Unavailable("settings store", err)
	}

	if err := s.cache.SetJSON(ctx, cacheKey(owner), st); err != nil {
		s.logger.Warn().Err(err).Str("user_id", string(owner)).Msg("settings cache write failed")
	}
	return *st, nil
}

// Coefficients resolves the owner's settings into estimator coefficients.
func (s *Service) Coefficients(ctx context.Context, owner types.ID) (pricing.Coefficients, error) {
	st, err := s.Resolve(ctx, owner)
	if err != nil {
		return pricing.Coefficients{}, err
	}
	return st.Coefficients(), nil
}

// Save validates and upserts the owner's settings.
func (s *Service) Save(ctx context.Context, cmd SaveCommand) (Settings, error) {
	if cmd.Owner == "" {
		return Settings{}, types.Invalid("user_id", "user_id is required")
	}
	if !finite(cmd.FuelPrice) || cmd.FuelPrice <= 0 {
		return Settings{}, types.Invalid("fuel_price", "must be greater than zero")
	}
	if !finite(cmd.TollBase) || cmd.TollBase < 0 {
		return Settings{}, types.Invalid("toll_coeffs_json.base", "must be zero or greater")
	}
	if !finite(cmd.TollPerKm) || cmd.TollPerKm < 0 {
		return Settings{}, types.Invalid("toll_coeffs_json.per_km", "must be zero or greater")
	}
	mode, err := pricing.ParseRoundingMode(cmd.RoundingMode)
	if err != nil {
		return Settings{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	saved, err := s.store.Upsert(callCtx, Settings{
		UserID:       cmd.Owner,
		FuelPrice:    cmd.FuelPrice,
		TollCoeffs:   TollCoeffs{Base: cmd.TollBase, PerKm: cmd.TollPerKm},
		RoundingMode: mode,
	})
	if err != nil {
		return Settings{}, types.Unavailable("settings store", err)
	}
	if err := s.cache.Delete(ctx, cacheKey(cmd.Owner)); err != nil {
		s.logger.Warn().Err(err).Str("user_id", string(cmd.Owner)).Msg("settings cache invalidate failed")
	}
	return *saved, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func cacheKey(owner types.ID) string {
	return "settings:" + string(owner)
}
