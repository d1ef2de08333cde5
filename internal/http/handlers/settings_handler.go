// README: Settings handlers (resolve with defaults, upsert).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabihi/internal/http/middleware"
	"tabihi/internal/modules/settings"
	"tabihi/internal/types"
)

type SettingsService interface {
	Resolve(ctx context.Context, owner types.ID) (settings.Settings, error)
	Save(ctx context.Context, cmd settings.SaveCommand) (settings.Settings, error)
}

type SettingsHandler struct {
	settings SettingsService
}

func NewSettingsHandler(svc SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: svc}
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	st, err := h.settings.Resolve(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"settings": st})
}

type saveSettingsReq struct {
	FuelPrice  float64 `json:"fuel_price" binding:"required,gt=0"`
	TollCoeffs struct {
		Base  *float64 `json:"base" binding:"required,gte=0"`
		PerKm *float64 `json:"per_km" binding:"required,gte=0"`
	} `json:"toll_coeffs_json"`
	RoundingMode string `json:"rounding_mode" binding:"required"`
}

// Save handles PUT /api/settings.
func (h *SettingsHandler) Save(c *gin.Context) {
	var req saveSettingsReq
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.settings.Save(c.Request.Context(), settings.SaveCommand{
		Owner:        middleware.CallerUID(c),
		FuelPrice:    req.FuelPrice,
		TollBase:     *req.TollCoeffs.Base,
		TollPerKm:    *req.TollCoeffs.PerKm,
		RoundingMode: req.RoundingMode,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "data": st})
}
