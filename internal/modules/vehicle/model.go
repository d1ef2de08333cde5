// README: Vehicle model; efficiency is km per litre (or per kWh for EVs).
package vehicle

import (
	"strings"
	"time"

	"tabihi/internal/types"
)

type FuelType string

const (
	FuelGasoline FuelType = "gasoline"
	FuelHybrid   FuelType = "hybrid"
	FuelEV       FuelType = "ev"
)

func ParseFuelType(s string) (FuelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gasoline":
		return FuelGasoline, nil
	case "hybrid":
		return FuelHybrid, nil
	case "ev", "electric":
		return FuelEV, nil
	}
	return "", types.Invalid("fuel_type", "fuel_type must be gasoline, hybrid or ev")
}

type Vehicle struct {
	ID         types.ID   `json:"id"`
	UserID     types.ID   `json:"user_id"`
	Name       string     `json:"name"`
	FuelType   FuelType   `json:"fuel_type"`
	Efficiency float64    `json:"efficiency_kml"`
	Notes      string     `json:"notes"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// SaveCommand inserts when ID is empty and updates the owner's vehicle otherwise.
type SaveCommand struct {
	Owner      types.ID
	ID         types.ID
	Name       string
	FuelType   string
	Efficiency float64
	Notes      string
}
