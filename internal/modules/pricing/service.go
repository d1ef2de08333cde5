// README: Estimation service; resolves route, efficiency and coefficients, then runs the estimator.
package pricing

import (
	"context"
	"strings"

	"tabihi/internal/maps"
	"tabihi/internal/types"
)

// SettingsResolver returns the estimator coefficients for an owner.
// The empty owner resolves to the defaults.
type SettingsResolver interface {
	Coefficients(ctx context.Context, owner types.ID) (Coefficients, error)
}

type RouteLookup interface {
	Lookup(ctx context.Context, origin, destination string) (maps.Route, error)
}

type VehicleSource interface {
	Efficiency(ctx context.Context, owner, id types.ID) (float64, error)
}

type Service struct {
	settings SettingsResolver
	routes   RouteLookup
	vehicles VehicleSource
}

func NewService(settings SettingsResolver, routes RouteLookup, vehicles VehicleSource) *Service {
	return &Service{settings: settings, routes: routes, vehicles: vehicles}
}

type QuoteRequest struct {
	Owner       types.ID
	Origin      string
	Destination string
	// DistanceKm and DurationMin are used only when both are set.
	DistanceKm     *float64
	DurationMin    *int
	FuelEfficiency *float64
	VehicleID      types.ID
	Headcount      int
	RentCost       types.Yen
	ParkCost       types.Yen
}

type Quote struct {
	Origin       string       `json:"origin"`
	Destination  string       `json:"destination"`
	DistanceKm   float64      `json:"distance_km"`
	DurationMin  int          `json:"duration_min"`
	Summary      string       `json:"summary,omitempty"`
	Polyline     string       `json:"overview_polyline,omitempty"`
	Headcount    int          `json:"headcount"`
	Estimate     Estimate     `json:"estimate"`
	Coefficients Coefficients `json:"settings"`
}

// Quote estimates the cost of a trip. No estimate is produced when the route cannot be resolved.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	origin := strings.TrimSpace(req.Origin)
	destination := strings.TrimSpace(req.Destination)
	if origin == "" {
		return Quote{}, types.Invalid("origin", "origin is required")
	}
	if destination == "" {
		return Quote{}, types.Invalid("destination", "destination is required")
	}
	if req.Headcount < 1 {
		return Quote{}, types.Invalid("headcount", "must be at least 1")
	}
	if req.DurationMin != nil && *req.DurationMin < 0 {
		return Quote{}, types.Invalid("duration_min", "must be zero or greater")
	}

	efficiency, err := s.efficiency(ctx, req)
	if err != nil {
		return Quote{}, err
	}

	coeffs, err := s.settings.Coefficients(ctx, req.Owner)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{Origin: origin, Destination: destination, Headcount: req.Headcount, Coefficients: coeffs}
	if req.DistanceKm != nil && req.DurationMin != nil {
		q.DistanceKm = *req.DistanceKm
		q.DurationMin = *req.DurationMin
	} else {
		route, err := s.routes.Lookup(ctx, origin, destination)
		if err != nil {
			return Quote{}, err
		}
		q.DistanceKm = route.DistanceKm
		q.DurationMin = route.DurationMin
		q.Summary = route.Summary
		q.Polyline = route.Polyline
	}

	est, err := Calculate(EstimateInput{
		DistanceKm:     q.DistanceKm,
		FuelEfficiency: efficiency,
		Headcount:      req.Headcount,
		RentCost:       req.RentCost,
		ParkCost:       req.ParkCost,
	}, coeffs)
	if err != nil {
		return Quote{}, err
	}
	q.Estimate = est
	return q, nil
}

func (s *Service) efficiency(ctx context.Context, req QuoteRequest) (float64, error) {
	if req.FuelEfficiency != nil {
		if !finite(*req.FuelEfficiency) || *req.FuelEfficiency <= 0 {
			return 0, types.Invalid("fuel_efficiency", "must be greater than zero")
		}
		return *req.FuelEfficiency, nil
	}
	if req.VehicleID == "" {
		return 0, types.Invalid("fuel_efficiency", "fuel_efficiency or vehicle_id is required")
	}
	if req.Owner == "" || s.vehicles == nil {
		return 0, types.Invalid("vehicle_id", "sign in to use a saved vehicle")
	}
	return s.vehicles.Efficiency(ctx, req.Owner, req.VehicleID)
}
