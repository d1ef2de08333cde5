package maps

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"tabihi/internal/types"
)

const maxSuggestions = 5

// Place is a simplified autocomplete prediction.
type Place struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// PlacesService handles interactions with the Google Places API.
type PlacesService struct {
	client  *maps.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string, opts ...Option) (*PlacesService, error) {
	client, o, err := newClient(apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &PlacesService{client: client, timeout: o.timeout, logger: o.logger}, nil
}

// Suggest returns up to five place predictions in Japan for a partially typed origin or destination.
func (s *PlacesService) Suggest(ctx context.Context, input string) ([]Place, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, types.Invalid("input", "input is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input:      input,
		Language:   "ja",
		Components: map[maps.Component][]string{maps.ComponentCountry: {"jp"}},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("place autocomplete failed")
		return nil, types.Unavailable("places provider", err)
	}

	places := make([]Place, 0, maxSuggestions)
	for _, p := range resp.Predictions {
		if len(places) == maxSuggestions {
			break
		}
		places = append(places, Place{Description: p.Description, PlaceID: p.PlaceID})
	}
	return places, nil
}
