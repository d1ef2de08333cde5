// README: Per-owner estimator settings and their defaults.
package settings

import (
	"time"

	"tabihi/internal/modules/pricing"
	"tabihi/internal/types"
)

// Defaults applied when an owner has never saved settings.
const (
	DefaultFuelPrice    = 170.0
	DefaultTollBase     = 150.0
	DefaultTollPerKm    = 24.6
	DefaultRoundingMode = pricing.RoundHalfUp
)

type TollCoeffs struct {
	Base  float64 `json:"base"`
	PerKm float64 `json:"per_km"`
}

type Settings struct {
	UserID       types.ID             `json:"user_id,omitempty"`
	FuelPrice    float64              `json:"fuel_price"`
	TollCoeffs   TollCoeffs           `json:"toll_coeffs_json"`
	RoundingMode pricing.RoundingMode `json:"rounding_mode"`
	UpdatedAt    *time.Time           `json:"updated_at,omitempty"`
}

type SaveCommand struct {
	Owner        types.ID
	FuelPrice    float64
	TollBase     float64
	TollPerKm    float64
	RoundingMode string
}

// Defaults returns the settings used for owners without a stored row. The value is never persisted.
func Defaults(owner types.ID) Settings {
	return Settings{
		UserID:       owner,
		FuelPrice:    DefaultFuelPrice,
		TollCoeffs:   TollCoeffs{Base: DefaultTollBase, PerKm: DefaultTollPerKm},
		RoundingMode: DefaultRoundingMode,
	}
}

func (s Settings) Coefficients() pricing.Coefficients {
	return pricing.Coefficients{
		FuelPrice: s.FuelPrice,
		TollBase:  s.TollCoeffs.Base,
		TollPerKm: s.TollCoeffs.PerKm,
		Mode:      s.RoundingMode,
	}
}
