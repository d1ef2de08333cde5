// README: Vehicle handlers (list, insert/update).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabihi/internal/http/middleware"
	"tabihi/internal/modules/vehicle"
	"tabihi/internal/types"
)

type VehicleService interface {
	List(ctx context.Context, owner types.ID) ([]vehicle.Vehicle, error)
	Save(ctx context.Context, cmd vehicle.SaveCommand) (vehicle.Vehicle, error)
}

type VehicleHandler struct {
	vehicles VehicleService
}

func NewVehicleHandler(svc VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: svc}
}

// List handles GET /api/vehicles.
func (h *VehicleHandler) List(c *gin.Context) {
	out, err := h.vehicles.List(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicles": out})
}

type saveVehicleReq struct {
	ID         string  `json:"id" binding:"omitempty,uuid"`
	Name       string  `json:"name" binding:"required"`
	FuelType   string  `json:"fuel_type" binding:"required"`
	Efficiency float64 `json:"efficiency_kml" binding:"required,gt=0"`
	Notes      string  `json:"notes" binding:"max=500"`
}

// Save handles POST /api/vehicles. A body without id creates a vehicle.
func (h *VehicleHandler) Save(c *gin.Context) {
	var req saveVehicleReq
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.vehicles.Save(c.Request.Context(), vehicle.SaveCommand{
		Owner:      middleware.CallerUID(c),
		ID:         types.ID(req.ID),
		Name:       req.Name,
		FuelType:   req.FuelType,
		Efficiency: req.Efficiency,
		Notes:      req.Notes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(c, status, gin.H{"success": true, "data": v})
}
