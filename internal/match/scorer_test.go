package match

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestTokenSetScorer(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical single token", a: "ayala", b: "ayala", want: 1.0},
		{name: "disjoint", a: "ayala", b: "cubao", want: 0.0},
		{name: "empty left", a: "", b: "cubao", want: 0.0},
		{name: "empty both", a: "", b: "", want: 0.0},
		{name: "partial overlap no containment", a: "makati city", b: "makati north", want: 1.0 / 3.0},
		{name: "overlap plus containment", a: "makati", b: "makati city", want: 0.5},
	}

	s := TokenSetScorer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenSetScorerBonusPairs(t *testing.T) {
	s := TokenSetScorer{}
	// Disjoint token sets, Jaccard 0, one containment pair.
	if got := s.Score("maka", "makati"); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("Score = %v, want 0.1", got)
	}
	// Two containment pairs on top of Jaccard 0; bonus stacks.
	if got := s.Score("ma ka", "makati"); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("Score = %v, want 0.2", got)
	}
	// The final score is capped at 1.0 no matter how many pairs match.
	if got := s.Score("a aa aaa aaaa", "a aa aaa aaaa aaaaa"); got > 1.0 {
		t.Fatalf("Score = %v, want <= 1.0", got)
	}
}

func TestScorerSymmetryAndBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"ayala", "makati", "city", "north", "cebu", "it", "park", "ave", "2", "greenbelt"}

	randomKey := func() string {
		n := rng.Intn(4)
		parts := make([]string, 0, n)
		for i := 0; i < n; i++ {
			parts = append(parts, words[rng.Intn(len(words))])
		}
		return strings.Join(parts, " ")
	}

	scorers := map[string]Scorer{
		"token set":     TokenSetScorer{},
		"edit distance": EditDistanceScorer{},
	}
	for name, s := range scorers {
		for i := 0; i < 500; i++ {
			a, b := randomKey(), randomKey()
			ab, ba := s.Score(a, b), s.Score(b, a)
			if ab != ba {
				t.Fatalf("%s: Score(%q, %q)=%v but reversed=%v", name, a, b, ab, ba)
			}
			if ab < 0 || ab > 1 {
				t.Fatalf("%s: Score(%q, %q)=%v out of [0,1]", name, a, b, ab)
			}
		}
		if got := s.Score("", "anything"); got != 0 {
			t.Fatalf("%s: empty key must score 0, got %v", name, got)
		}
	}
}

func TestEditDistanceScorer(t *testing.T) {
	s := EditDistanceScorer{}
	if got := s.Score("ayala", "ayala"); got != 1.0 {
		t.Fatalf("identical keys = %v, want 1.0", got)
	}
	if got := s.Score("ayala", "ayalas"); got <= 0.5 {
		t.Fatalf("near keys = %v, want > 0.5", got)
	}
}
