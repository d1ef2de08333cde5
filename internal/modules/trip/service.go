// README: Trip service; server-side re-estimation, insert and recent listing.
package trip

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tabihi/internal/modules/pricing"
	"tabihi/internal/types"
)

type Quoter interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (pricing.Quote, error)
}

type Service struct {
	store   *Store
	quoter  Quoter
	timeout time.Duration
	logger  zerolog.Logger
}

func NewService(store *Store, quoter Quoter, timeout time.Duration, logger zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{store: store, quoter: quoter, timeout: timeout, logger: logger}
}

// Save re-estimates the trip for req.Owner and stores the result.
// Client-computed totals are never trusted.
func (s *Service) Save(ctx context.Context, req pricing.QuoteRequest) (Trip, error) {
	if req.Owner == "" {
		return Trip{}, types.Invalid("user_id", "user_id is required")
	}
	q, err := s.quoter.Quote(ctx, req)
	if err != nil {
		return Trip{}, err
	}
	t, err := Assemble(req.Owner, q.Origin, q.Destination,
		RouteFacts{DistanceKm: q.DistanceKm, DurationMin: q.DurationMin}, q.Estimate, q.Headcount)
	if err != nil {
		return Trip{}, err
	}
	t.ID = types.ID(uuid.NewString())

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	saved, err := s.store.Insert(callCtx, t)
	if err != nil {
		return Trip{}, types.Unavailable("trip store", err)
	}
	s.logger.Info().
		Str("trip_id", string(saved.ID)).
		Str("user_id", string(saved.UserID)).
		Int64("total", int64(saved.Total)).
		Msg("trip saved")
	return *saved, nil
}

// ListRecent returns the owner's latest trips, newest first.
func (s *Service) ListRecent(ctx context.Context, owner types.ID) ([]Trip, error) {
	if owner == "" {
		return nil, types.Invalid("user_id", "user_id is required")
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.store.ListRecent(callCtx, owner, RecentLimit)
	if err != nil {
		return nil, types.Unavailable("trip store", err)
	}
	return out, nil
}
