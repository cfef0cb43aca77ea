package bracket

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"precon", Exhibition},
		{"  Preconstructed ", Exhibition},
		{"1", Exhibition},
		{"bracket-2", Core},
		{"Bracket3", Upgraded},
		{"bracket 4", Optimized},
		{"optimised", Optimized},
		{"Competitive", CEDH},
		{"c-edh", CEDH},
		{"cEDH", CEDH},
		{"exhibition/budget", "exhibition/budget"},
		{"precon/Expensive", "exhibition/expensive"},
		{"exhibition-budget", "exhibition/budget"},
		{"bracket-1-budget", "exhibition/budget"},
		{"/core/", Core},
		{"budget", Budget},
		{"Spooky", "spooky"},
		{"core-spooky", "core-spooky"},
		{"budget-expensive", "budget-expensive"},
		{"6", "6"},
		{"all", "all"},
		{"", ""},
		{"   ", ""},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_CanonicalAreFixedPoints(t *testing.T) {
	for _, c := range Canonical {
		if got := Normalize(c); got != c {
			t.Errorf("Normalize(%q) = %q", c, got)
		}
	}
}

func FuzzNormalize(f *testing.F) {
	for _, seed := range []string{"precon", "bracket-5", "Exhibition-Budget", "/x//y/", " Ünïcode ", "\xff", "core/budget/extra"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestIsKnown(t *testing.T) {
	tests := map[string]bool{
		"precon":            true,
		"exhibition/budget": true,
		"all":               false,
		"spooky":            false,
		"":                  false,
	}
	for in, want := range tests {
		if got := IsKnown(in); got != want {
			t.Errorf("IsKnown(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := map[string]string{
		"optimized":         "Optimized",
		"5":                 "cEDH",
		"exhibition-budget": "Exhibition (Budget)",
		"all":               "All",
		"Mystery":           "mystery",
	}
	for in, want := range tests {
		if got := Display(in); got != want {
			t.Errorf("Display(%q) = %q, want %q", in, got, want)
		}
	}
}
