// README: Trip record; an immutable snapshot of one estimate.
package trip

import (
	"time"

	"tabihi/internal/types"
)

// RecentLimit caps ListRecent.
const RecentLimit = 20

type Trip struct {
	ID          types.ID  `json:"id"`
	UserID      types.ID  `json:"user_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DistanceKm  float64   `json:"distance_km"`
	DurationMin int       `json:"duration_min"`
	TollEst     types.Yen `json:"toll_est"`
	FuelCost    types.Yen `json:"fuel_cost"`
	RentCost    types.Yen `json:"rent_cost"`
	ParkCost    types.Yen `json:"park_cost"`
	Headcount   int       `json:"headcount"`
	Total       types.Yen `json:"total"`
	PerPerson   types.Yen `json:"per_person"`
	CreatedAt   time.Time `json:"created_at"`
}

// RouteFacts are the distance and duration a trip was estimated over.
type RouteFacts struct {
	DistanceKm  float64
	DurationMin int
}
