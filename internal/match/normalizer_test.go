package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "strips bpi and branch tokens", in: "BPI Ayala Branch", want: "ayala"},
		{name: "strips office and the", in: "The Makati Office", want: "makati"},
		{name: "punctuation becomes space", in: "Quezon-City,  North!", want: "quezon city north"},
		{name: "collapses whitespace", in: "  Cebu    IT   Park  ", want: "cebu it park"},
		{name: "empty input", in: "", want: ""},
		{name: "only stop words", in: "BPI Branch Office", want: ""},
		{name: "digits survive", in: "BPI Alabang Branch 2", want: "alabang 2"},
		{name: "stop word inside a larger token stays", in: "Branchville", want: "branchville"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"BPI Ayala Branch",
		"The Makati Office",
		"Quezon-City,  North!",
		"",
		"ayala",
		"BPI BPI bpi",
		"Greenbelt 5, Makati City",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
