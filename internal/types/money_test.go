package types

import (
	"math"
	"testing"
)

func TestSumYen(t *testing.T) {
	cases := []struct {
		name  string
		parts []Yen
		want  Yen
		ok    bool
	}{
		{"empty", nil, 0, true},
		{"parts", []Yen{12819, 5837, 8000, 1200}, 27856, true},
		{"at limit", []Yen{math.MaxInt64 - 1, 1}, math.MaxInt64, true},
		{"overflow", []Yen{math.MaxInt64, 1}, 0, false},
		{"wraps past zero", []Yen{math.MaxInt64, math.MaxInt64, 2}, 0, false},
		{"negative part", []Yen{10, -1}, 0, false},
	}
	for _, tc := range cases {
		got, ok := SumYen(tc.parts...)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: SumYen(%v) = %d, %v; want %d, %v", tc.name, tc.parts, got, ok, tc.want, tc.ok)
		}
	}
}
