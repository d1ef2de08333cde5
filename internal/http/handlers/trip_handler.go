// README: Trip history handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabihi/internal/http/middleware"
	"tabihi/internal/modules/pricing"
	"tabihi/internal/modules/trip"
	"tabihi/internal/types"
)

type TripService interface {
	Save(ctx context.Context, req pricing.QuoteRequest) (trip.Trip, error)
	ListRecent(ctx context.Context, owner types.ID) ([]trip.Trip, error)
}

type TripHandler struct {
	trips TripService
}

func NewTripHandler(svc TripService) *TripHandler {
	return &TripHandler{trips: svc}
}

// List handles GET /api/trips.
func (h *TripHandler) List(c *gin.Context) {
	out, err := h.trips.ListRecent(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": out})
}

// Save handles POST /api/trips. Costs are recomputed; totals in the body are ignored.
func (h *TripHandler) Save(c *gin.Context) {
	var req estimateReq
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.trips.Save(c.Request.Context(), req.toQuote(middleware.CallerUID(c)))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"success": true, "data": t})
}
