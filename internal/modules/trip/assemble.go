package trip

import (
	"strings"

	"tabihi/internal/modules/pricing"
	"tabihi/internal/types"
)

// Assemble builds an unsaved Trip from an estimate. It performs no I/O;
// ID and CreatedAt are assigned on insert.
func Assemble(owner types.ID, origin, destination string, facts RouteFacts, est pricing.Estimate, headcount int) (Trip, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	switch {
	case owner == "":
		return Trip{}, types.Invalid("user_id", "user_id is required")
	case origin == "":
		return Trip{}, types.Invalid("origin", "origin is required")
	case destination == "":
		return Trip{}, types.Invalid("destination", "destination is required")
	case facts.DistanceKm < 0:
		return Trip{}, types.Invalid("distance_km", "must be zero or greater")
	case facts.DurationMin < 0:
		return Trip{}, types.Invalid("duration_min", "must be zero or greater")
	case headcount < 1:
		return Trip{}, types.Invalid("headcount", "must be at least 1")
	case est.TollEst < 0 || est.FuelCost < 0 || est.RentCost < 0 || est.ParkCost < 0 || est.PerPerson < 0:
		return Trip{}, types.Invalid("estimate", "amounts must be zero or greater")
	}
	if sum, ok := types.SumYen(est.TollEst, est.FuelCost, est.RentCost, est.ParkCost); !ok || sum != est.Total {
		return Trip{}, types.Invalid("total", "total does not equal the sum of its parts")
	}

	return Trip{
		UserID:      owner,
		Origin:      origin,
		Destination: destination,
		DistanceKm:  facts.DistanceKm,
		DurationMin: facts.DurationMin,
		TollEst:     est.TollEst,
		FuelCost:    est.FuelCost,
		RentCost:    est.RentCost,
		ParkCost:    est.ParkCost,
		Headcount:   headcount,
		Total:       est.Total,
		PerPerson:   est.PerPerson,
	}, nil
}
