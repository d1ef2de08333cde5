// README: Pricing inputs, coefficients and the per-trip cost breakdown.
package pricing

import "tabihi/internal/types"

// Coefficients are the user-configurable knobs of the estimator.
type Coefficients struct {
	FuelPrice float64      `json:"fuel_price"`  // yen per litre
	TollBase  float64      `json:"toll_base"`   // flat toll fee
	TollPerKm float64      `json:"toll_per_km"` // toll per driven km
	Mode      RoundingMode `json:"rounding_mode"`
}

type EstimateInput struct {
	DistanceKm     float64
	FuelEfficiency float64 // km per litre
	Headcount      int
	RentCost       types.Yen
	ParkCost       types.Yen
}

type Estimate struct {
	TollEst   types.Yen `json:"toll_est"`
	FuelCost  types.Yen `json:"fuel_cost"`
	RentCost  types.Yen `json:"rent_cost"`
	ParkCost  types.Yen `json:"park_cost"`
	Total     types.Yen `json:"total"`
	PerPerson types.Yen `json:"per_person"`
}
