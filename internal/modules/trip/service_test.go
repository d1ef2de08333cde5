// README: Trip assembly and persistence tests.
package trip

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"

	"tabihi/internal/modules/pricing"
	"tabihi/internal/types"
)

var osakaTokyo = pricing.Estimate{TollEst: 12819, FuelCost: 5837, Total: 18656, PerPerson: 9328}

type stubQuoter struct {
	quote pricing.Quote
	err   error
	reqs  []pricing.QuoteRequest
}

func (s *stubQuoter) Quote(_ context.Context, req pricing.QuoteRequest) (pricing.Quote, error) {
	s.reqs = append(s.reqs, req)
	return s.quote, s.err
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestAssemble(t *testing.T) {
	got, err := Assemble("u1", " 大阪駅 ", "東京駅", RouteFacts{DistanceKm: 515, DurationMin: 361}, osakaTokyo, 2)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got.Origin != "大阪駅" || got.Total != 18656 || got.PerPerson != 9328 || got.Headcount != 2 {
		t.Fatalf("unexpected trip %+v", got)
	}
	if got.ID != "" || !got.CreatedAt.IsZero() {
		t.Fatalf("assemble must not assign id or created_at")
	}
}

func TestAssemble_Rejects(t *testing.T) {
	broken := osakaTokyo
	broken.Total++
	cases := []struct {
		name      string
		owner     types.ID
		facts     RouteFacts
		est       pricing.Estimate
		headcount int
	}{
		{"no owner", "", RouteFacts{DistanceKm: 1}, osakaTokyo, 1},
		{"negative distance", "u1", RouteFacts{DistanceKm: -1}, osakaTokyo, 1},
		{"negative duration", "u1", RouteFacts{DurationMin: -1}, osakaTokyo, 1},
		{"zero headcount", "u1", RouteFacts{}, osakaTokyo, 0},
		{"total mismatch", "u1", RouteFacts{}, broken, 1},
		{"negative toll", "u1", RouteFacts{}, pricing.Estimate{TollEst: -10, FuelCost: 20, Total: 10, PerPerson: 10}, 1},
		// The parts sum to 2^64, which wraps to 0 in int64 arithmetic.
		{"wrapped total", "u1", RouteFacts{}, pricing.Estimate{
			TollEst: math.MaxInt64, FuelCost: math.MaxInt64, RentCost: 2, Total: 0,
		}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(tc.owner, "a", "b", tc.facts, tc.est, tc.headcount)
			if !errors.Is(err, types.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSave_RecomputesAndInserts(t *testing.T) {
	mock := newMock(t)
	quoter := &stubQuoter{quote: pricing.Quote{
		Origin: "大阪駅", Destination: "東京駅", DistanceKm: 515, DurationMin: 361, Headcount: 2, Estimate: osakaTokyo,
	}}
	created := time.Date(2026, 5, 3, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO trips").
		WithArgs(pgxmock.AnyArg(), "u1", "大阪駅", "東京駅", 515.0, 361,
			int64(12819), int64(5837), int64(0), int64(0), 2, int64(18656), int64(9328)).
		WillReturnRows(mock.NewRows([]string{"created_at"}).AddRow(created))

	svc := NewService(NewStore(mock), quoter, time.Second, zerolog.Nop())
	got, err := svc.Save(context.Background(), pricing.QuoteRequest{Owner: "u1", Origin: "大阪駅", Destination: "東京駅", Headcount: 2})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if got.ID == "" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected saved trip %+v", got)
	}
	if len(quoter.reqs) != 1 || quoter.reqs[0].Owner != "u1" {
		t.Fatalf("expected one quote for u1, got %+v", quoter.reqs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSave_QuoteFailureInsertsNothing(t *testing.T) {
	mock := newMock(t)
	svc := NewService(NewStore(mock), &stubQuoter{err: types.NotFound("route")}, time.Second, zerolog.Nop())

	_, err := svc.Save(context.Background(), pricing.QuoteRequest{Owner: "u1", Origin: "a", Destination: "b", Headcount: 1})
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSave_RequiresOwner(t *testing.T) {
	quoter := &stubQuoter{}
	svc := NewService(NewStore(newMock(t)), quoter, time.Second, zerolog.Nop())
	if _, err := svc.Save(context.Background(), pricing.QuoteRequest{Origin: "a", Destination: "b", Headcount: 1}); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(quoter.reqs) != 0 {
		t.Fatalf("anonymous save must not quote")
	}
}

func TestListRecent_CappedNewestFirst(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	cols := []string{"id", "user_id", "origin", "destination", "distance_km", "duration_min",
		"toll_est", "fuel_cost", "rent_cost", "park_cost", "headcount", "total", "per_person", "created_at"}
	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs("u1", RecentLimit).WillReturnRows(
		mock.NewRows(cols).
			AddRow(types.ID("t2"), types.ID("u1"), "京都", "奈良", 45.2, 60, int64(1262), int64(512), int64(0), int64(500), 2, int64(2274), int64(1137), now).
			AddRow(types.ID("t1"), types.ID("u1"), "大阪駅", "東京駅", 515.0, 361, int64(12819), int64(5837), int64(0), int64(0), 2, int64(18656), int64(9328), now.Add(-time.Hour)),
	)

	got, err := NewService(NewStore(mock), nil, time.Second, zerolog.Nop()).ListRecent(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t2" || got[0].ParkCost != 500 || got[1].Total != 18656 {
		t.Fatalf("unexpected trips %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
