package score

import (
	"math"
	"testing"
)

func TestPerfScore(t *testing.T) {
	tests := []struct {
		name           string
		actual         float64
		maxRequirement float64
		excellent      float64
		poor           float64
		want           float64
	}{
		{name: "at excellent boundary inclusive", actual: 5.0, maxRequirement: 4.0, excellent: 5.0, poor: 6.0, want: 100},
		{name: "under excellent", actual: 1.0, maxRequirement: 4.0, excellent: 5.0, poor: 6.0, want: 100},
		{name: "mid requirement band", actual: 7.0, maxRequirement: 9.0, excellent: 5.0, poor: 18.0, want: 90},
		{name: "at requirement boundary", actual: 9.0, maxRequirement: 9.0, excellent: 5.0, poor: 18.0, want: 80},
		{name: "mid poor band", actual: 13.5, maxRequirement: 9.0, excellent: 5.0, poor: 18.0, want: 50},
		{name: "at poor boundary", actual: 18.0, maxRequirement: 9.0, excellent: 5.0, poor: 18.0, want: 30},
		{name: "just past poor", actual: 19.0, maxRequirement: 9.0, excellent: 5.0, poor: 18.0, want: 18},
		{name: "tail floors at five", actual: 100.0, maxRequirement: 9.0, excellent: 5.0, poor: 18.0, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := perfScore(tt.actual, tt.maxRequirement, tt.excellent, tt.poor)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("perfScore(%v) = %v, want %v", tt.actual, got, tt.want)
			}
		})
	}
}
