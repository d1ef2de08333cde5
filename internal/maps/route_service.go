package maps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"tabihi/internal/cache"
	"tabihi/internal/obs"
	"tabihi/internal/types"
)

const defaultTimeout = 5 * time.Second

// Route is a driving route between two free-text places.
type Route struct {
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin int     `json:"durationMin"`
	Polyline    string  `json:"overviewPolyline"`
	Summary     string  `json:"summary"`
}

// RouteService handles interactions with the Google Maps Directions API.
type RouteService struct {
	client  *maps.Client
	timeout time.Duration
	cache   *cache.Cache
	metrics *obs.Metrics
	logger  zerolog.Logger
}

type Option func(*options)

type options struct {
	baseURL string
	timeout time.Duration
	cache   *cache.Cache
	metrics *obs.Metrics
	logger  zerolog.Logger
}

// WithBaseURL points the client at a different API host (used by tests).
func WithBaseURL(u string) Option { return func(o *options) { o.baseURL = u } }

func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

func WithCache(c *cache.Cache) Option { return func(o *options) { o.cache = c } }

func WithMetrics(m *obs.Metrics) Option { return func(o *options) { o.metrics = m } }

func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = l } }

func newClient(apiKey string, opts []Option) (*maps.Client, options, error) {
	o := options{timeout: defaultTimeout, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		o.timeout = defaultTimeout
	}
	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(o.baseURL))
	}
	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, o, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, o, nil
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...Option) (*RouteService, error) {
	client, o, err := newClient(apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &RouteService{
		client:  client,
		timeout: o.timeout,
		cache:   o.cache,
		metrics: o.metrics,
		logger:  o.logger,
	}, nil
}

// Lookup returns distance (km, one decimal), duration (whole minutes), the encoded
// overview polyline and the route summary for a driving trip in Japan.
func (s *RouteService) Lookup(ctx context.Context, origin, destination string) (Route, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" {
		s.metrics.RouteLookup(obs.OutcomeInvalid)
		return Route{}, types.Invalid("origin", "origin is required")
	}
	if destination == "" {
		s.metrics.RouteLookup(obs.OutcomeInvalid)
		return Route{}, types.Invalid("destination", "destination is required")
	}

	key := routeKey(origin, destination)
	var cached Route
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		s.logger.Warn().Err(err).Msg("route cache read failed")
	} else if ok {
		s.metrics.RouteLookup(obs.OutcomeCacheHit)
		return cached, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	routes, _, err := s.client.Directions(callCtx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    "ja",
		Region:      "jp",
	})
	if err != nil {
		return Route{}, s.classify(err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 || routes[0].Legs[0] == nil {
		s.metrics.RouteLookup(obs.OutcomeNotFound)
		return Route{}, types.NotFound("route")
	}

	leg := routes[0].Legs[0]
	r := Route{
		DistanceKm:  math.Round(float64(leg.Distance.Meters)/1000*10) / 10,
		DurationMin: int(math.Round(leg.Duration.Seconds() / 60)),
		Polyline:    routes[0].OverviewPolyline.Points,
		Summary:     routes[0].Summary,
	}
	if err := s.cache.SetJSON(ctx, key, r); err != nil {
		s.logger.Warn().Err(err).Msg("route cache write failed")
	}
	s.metrics.RouteLookup(obs.OutcomeOK)
	return r, nil
}

var statusPattern = regexp.MustCompile(`^maps: ([A-Z_]+) - `)

// providerStatus extracts the Directions status from an error returned by the client.
func providerStatus(err error) string {
	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	return m[1]
}

func (s *RouteService) classify(err error) error {
	status := providerStatus(err)
	switch status {
	case "":
		s.logger.Error().Err(err).Msg("directions request failed")
		s.metrics.RouteLookup(obs.OutcomeUnavailable)
		return types.Unavailable("route provider", err)
	case "INVALID_REQUEST":
		s.metrics.RouteLookup(obs.OutcomeInvalid)
		return types.Invalid("route", "origin or destination could not be understood")
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "REQUEST_DENIED", "UNKNOWN_ERROR":
		s.logger.Error().Str("status", status).Err(err).Msg("directions provider refused request")
		s.metrics.RouteLookup(obs.OutcomeUnavailable)
		return types.Unavailable("route provider", errors.New(status))
	default:
		s.logger.Info().Str("status", status).Msg("no route found")
		s.metrics.RouteLookup(obs.OutcomeNotFound)
		return fmt.Errorf("route (%s) %w", status, types.ErrNotFound)
	}
}

func routeKey(origin, destination string) string {
	return "route:" + origin + "|" + destination
}
