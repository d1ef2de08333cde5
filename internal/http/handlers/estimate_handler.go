// README: Trip cost estimate handler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabihi/internal/http/middleware"
	"tabihi/internal/modules/pricing"
	"tabihi/internal/types"
)

type Quoter interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (pricing.Quote, error)
}

type EstimateHandler struct {
	quoter Quoter
}

func NewEstimateHandler(q Quoter) *EstimateHandler {
	return &EstimateHandler{quoter: q}
}

// estimateReq is shared by the estimate and trip save endpoints.
type estimateReq struct {
	Origin         string   `json:"origin" binding:"required"`
	Destination    string   `json:"destination" binding:"required"`
	DistanceKm     *float64 `json:"distance_km" binding:"omitempty,gte=0"`
	DurationMin    *int     `json:"duration_min" binding:"omitempty,gte=0"`
	FuelEfficiency *float64 `json:"fuel_efficiency" binding:"omitempty,gt=0"`
	VehicleID      string   `json:"vehicle_id"`
	Headcount      int      `json:"headcount" binding:"required,min=1"`
	RentCost       int64    `json:"rent_cost" binding:"gte=0"`
	ParkCost       int64    `json:"park_cost" binding:"gte=0"`
}

func (r estimateReq) toQuote(owner types.ID) pricing.QuoteRequest {
	return pricing.QuoteRequest{
		Owner:          owner,
		Origin:         r.Origin,
		Destination:    r.Destination,
		DistanceKm:     r.DistanceKm,
		DurationMin:    r.DurationMin,
		FuelEfficiency: r.FuelEfficiency,
		VehicleID:      types.ID(r.VehicleID),
		Headcount:      r.Headcount,
		RentCost:       types.Yen(r.RentCost),
		ParkCost:       types.Yen(r.ParkCost),
	}
}

type estimateResp struct {
	DistanceKm  float64              `json:"distance_km"`
	DurationMin int                  `json:"duration_min"`
	Summary     string               `json:"summary,omitempty"`
	Polyline    string               `json:"overview_polyline,omitempty"`
	TollEst     types.Yen            `json:"toll_est"`
	FuelCost    types.Yen            `json:"fuel_cost"`
	RentCost    types.Yen            `json:"rent_cost"`
	ParkCost    types.Yen            `json:"park_cost"`
	Total       types.Yen            `json:"total"`
	PerPerson   types.Yen            `json:"per_person"`
	Settings    pricing.Coefficients `json:"settings"`
}

// Estimate handles POST /api/route/search.
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.quoter.Quote(c.Request.Context(), req.toQuote(middleware.CallerUID(c)))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, estimateResp{
		DistanceKm:  q.DistanceKm,
		DurationMin: q.DurationMin,
		Summary:     q.Summary,
		Polyline:    q.Polyline,
		TollEst:     q.Estimate.TollEst,
		FuelCost:    q.Estimate.FuelCost,
		RentCost:    q.Estimate.RentCost,
		ParkCost:    q.Estimate.ParkCost,
		Total:       q.Estimate.Total,
		PerPerson:   q.Estimate.PerPerson,
		Settings:    q.Coefficients,
	})
}
