package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestInterp(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-12)
	tests := []struct {
		name string
		x    []float64
		xp   []float64
		fp   []float64
		want []float64
	}{
		{name: "exact at sample points", x: []float64{0.1, 0.5, 1.0}, xp: []float64{0.1, 0.5, 1.0}, fp: []float64{1, 3, 7}, want: []float64{1, 3, 7}},
		{name: "midpoints", x: []float64{0.3, 0.75}, xp: []float64{0.1, 0.5, 1.0}, fp: []float64{1, 3, 7}, want: []float64{2, 5}},
		{name: "clamps outside range", x: []float64{-1, 0.1, 2.5}, xp: []float64{0.1, 0.5, 1.0}, fp: []float64{1, 3, 7}, want: []float64{1, 1, 7}},
		{name: "single point", x: []float64{0, 1}, xp: []float64{0.5}, fp: []float64{4}, want: []float64{4, 4}},
		{name: "duplicate x", x: []float64{0.5, 0.75}, xp: []float64{0, 0.5, 0.5, 1}, fp: []float64{0, 1, 2, 4}, want: []float64{2, 3}},
		{name: "no sample points", x: []float64{1, 2}, xp: nil, fp: nil, want: []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interp(tt.x, tt.xp, tt.fp)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Interp mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
