package score

import (
	"fmt"
	"math"
	"testing"
)

func TestFinancialSimulatorDeterminism(t *testing.T) {
	s := NewFinancialSimulator()
	first := s.Score("Ayala")
	second := s.Score("Ayala")
	if first != second {
		t.Fatalf("same branch drew different scores: %v then %v", first, second)
	}

	// A separate simulator must draw the identical value: the seed is a
	// pure function of the branch name.
	if other := NewFinancialSimulator().Score("Ayala"); other != first {
		t.Fatalf("fresh simulator drew %v, want %v", other, first)
	}
}

func TestFinancialSimulatorDistribution(t *testing.T) {
	s := NewFinancialSimulator()

	var poor, average, good, excellent int
	const n = 5000
	for i := 0; i < n; i++ {
		v := s.Score(fmt.Sprintf("Branch %d", i))
		switch {
		case v >= 20 && v < 45:
			poor++
		case v >= 45 && v < 75:
			average++
		case v >= 75 && v < 85:
			good++
		case v >= 85 && v <= 95:
			excellent++
		default:
			t.Fatalf("score %v outside every band", v)
		}
	}

	checks := []struct {
		name  string
		count int
		want  float64
	}{
		{"poor", poor, 0.05},
		{"average", average, 0.55},
		{"good", good, 0.20},
		{"excellent", excellent, 0.20},
	}
	for _, c := range checks {
		got := float64(c.count) / n
		if math.Abs(got-c.want) > 0.03 {
			t.Errorf("%s band proportion = %.3f, want about %.2f", c.name, got, c.want)
		}
	}
}
