// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tabihi/internal/http/handlers"
	"tabihi/internal/http/middleware"
	"tabihi/internal/infra"
	"tabihi/internal/obs"
)

type RouterDeps struct {
	Routes   handlers.RouteLooker
	Places   handlers.PlaceSuggester
	Quoter   handlers.Quoter
	Settings handlers.SettingsService
	Vehicles handlers.VehicleService
	Trips    handlers.TripService
	Sessions infra.SessionValidator

	Logger   zerolog.Logger
	Metrics  *obs.Metrics
	Gatherer prometheus.Gatherer
	Limiter  *middleware.RateLimiter
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(deps.Logger, deps.Metrics), middleware.Recovery())

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	public := api.Group("", middleware.OptionalAuth(deps.Sessions))
	if deps.Limiter != nil {
		public.Use(middleware.RateLimit(deps.Limiter))
	}
	mapsHandler := handlers.NewMapsHandler(deps.Routes, deps.Places)
	public.GET("/maps/route", mapsHandler.Route)
	public.GET("/places/suggest", mapsHandler.Suggest)
	estimateHandler := handlers.NewEstimateHandler(deps.Quoter)
	public.POST("/route/search", estimateHandler.Estimate)

	private := api.Group("", middleware.Auth(deps.Sessions))
	settingsHandler := handlers.NewSettingsHandler(deps.Settings)
	private.GET("/settings", settingsHandler.Get)
	private.PUT("/settings", settingsHandler.Save)

	vehicleHandler := handlers.NewVehicleHandler(deps.Vehicles)
	private.GET("/vehicles", vehicleHandler.List)
	private.POST("/vehicles", vehicleHandler.Save)

	tripHandler := handlers.NewTripHandler(deps.Trips)
	tripGroup := private.Group("/trips")
	if deps.Limiter != nil {
		tripGroup.POST("", middleware.RateLimit(deps.Limiter), tripHandler.Save)
	} else {
		tripGroup.POST("", tripHandler.Save)
	}
	tripGroup.GET("", tripHandler.List)

	return r
}
