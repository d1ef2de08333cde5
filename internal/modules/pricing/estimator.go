// README: Cost estimator; pure arithmetic over distance, efficiency, headcount and coefficients.
package pricing

import (
	"math"

	"tabihi/internal/types"
)

// Calculate computes toll, fuel, total and per-person cost.
//
//	toll_est   = mode(toll_base + distance_km*toll_per_km)
//	fuel_cost  = mode(distance_km/efficiency * fuel_price)
//	total      = toll_est + fuel_cost + rent_cost + park_cost
//	per_person = mode(total / headcount)
//
// All inputs are validated before any division happens.
func Calculate(in EstimateInput, c Coefficients) (Estimate, error) {
	if err := in.validate(); err != nil {
		return Estimate{}, err
	}
	if err := c.validate(); err != nil {
		return Estimate{}, err
	}

	toll, err := c.round("toll_est", c.TollBase+in.DistanceKm*c.TollPerKm)
	if err != nil {
		return Estimate{}, err
	}
	fuel, err := c.round("fuel_cost", (in.DistanceKm/in.FuelEfficiency)*c.FuelPrice)
	if err != nil {
		return Estimate{}, err
	}

	total, ok := types.SumYen(toll, fuel, in.RentCost, in.ParkCost)
	if !ok {
		return Estimate{}, types.Invalid("total", "total is out of range")
	}
	perPerson, err := c.round("per_person", float64(total)/float64(in.Headcount))
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{
		TollEst:   toll,
		FuelCost:  fuel,
		RentCost:  in.RentCost,
		ParkCost:  in.ParkCost,
		Total:     total,
		PerPerson: perPerson,
	}, nil
}

func (in EstimateInput) validate() error {
	switch {
	case !finite(in.DistanceKm) || in.DistanceKm < 0:
		return types.Invalid("distance_km", "must be zero or greater")
	case !finite(in.FuelEfficiency) || in.FuelEfficiency <= 0:
		return types.Invalid("fuel_efficiency", "must be greater than zero")
	case in.Headcount < 1:
		return types.Invalid("headcount", "must be at least 1")
	case in.RentCost < 0:
		return types.Invalid("rent_cost", "must be zero or greater")
	case in.ParkCost < 0:
		return types.Invalid("park_cost", "must be zero or greater")
	}
	return nil
}

func (c Coefficients) validate() error {
	switch {
	case !finite(c.FuelPrice) || c.FuelPrice < 0:
		return types.Invalid("fuel_price", "must be zero or greater")
	case !finite(c.TollBase) || c.TollBase < 0:
		return types.Invalid("toll_base", "must be zero or greater")
	case !finite(c.TollPerKm) || c.TollPerKm < 0:
		return types.Invalid("toll_per_km", "must be zero or greater")
	case !c.Mode.Valid():
		return types.Invalid("rounding_mode", "unknown rounding mode "+string(c.Mode))
	}
	return nil
}

// round applies the mode, naming field when the amount does not fit in Yen.
func (c Coefficients) round(field string, v float64) (types.Yen, error) {
	y, err := c.Mode.Apply(v)
	if err != nil {
		return 0, types.Invalid(field, "too large to estimate")
	}
	return y, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
