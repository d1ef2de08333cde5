// README: Route lookup and place suggestion handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabihi/internal/maps"
)

type RouteLooker interface {
	Lookup(ctx context.Context, origin, destination string) (maps.Route, error)
}

type PlaceSuggester interface {
	Suggest(ctx context.Context, input string) ([]maps.Place, error)
}

type MapsHandler struct {
	routes RouteLooker
	places PlaceSuggester
}

func NewMapsHandler(routes RouteLooker, places PlaceSuggester) *MapsHandler {
	return &MapsHandler{routes: routes, places: places}
}

type routeQuery struct {
	Origin      string `form:"origin" binding:"required"`
	Destination string `form:"destination" binding:"required"`
}

// Route handles GET /api/maps/route.
func (h *MapsHandler) Route(c *gin.Context) {
	var q routeQuery
	if !bindQuery(c, &q) {
		return
	}
	route, err := h.routes.Lookup(c.Request.Context(), q.Origin, q.Destination)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, route)
}

type suggestQuery struct {
	Input string `form:"input" binding:"required,max=200"`
}

// Suggest handles GET /api/places/suggest.
func (h *MapsHandler) Suggest(c *gin.Context) {
	var q suggestQuery
	if !bindQuery(c, &q) {
		return
	}
	places, err := h.places.Suggest(c.Request.Context(), q.Input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"predictions": places})
}
