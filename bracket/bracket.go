package bracket

import (
	"strings"
)

// Canonical bracket tokens, lowest power first.
const (
	Exhibition = "exhibition"
	Core       = "core"
	Upgraded   = "upgraded"
	Optimized  = "optimized"
	CEDH       = "cedh"
)

// Budget modifiers that follow a bracket as a sub-path ("exhibition/budget").
const (
	Budget    = "budget"
	Expensive = "expensive"
)

// All is the implied token of an average-deck page with no bracket segment.
const All = "all"

// Canonical lists the tiers in ascending order.
var Canonical = []string{Exhibition, Core, Upgraded, Optimized, CEDH}

var aliases = map[string]string{
	"exhibition":     Exhibition,
	"precon":         Exhibition,
	"precons":        Exhibition,
	"preconstructed": Exhibition,
	"1":              Exhibition,
	"core":           Core,
	"2":              Core,
	"upgraded":       Upgraded,
	"upgrade":        Upgraded,
	"3":              Upgraded,
	"optimized":      Optimized,
	"optimised":      Optimized,
	"optimize":       Optimized,
	"4":              Optimized,
	"cedh":           CEDH,
	"c-edh":          CEDH,
	"competitive":    CEDH,
	"5":              CEDH,
	"budget":         Budget,
	"expensive":      Expensive,
}

var displayNames = map[string]string{
	Exhibition: "Exhibition",
	Core:       "Core",
	Upgraded:   "Upgraded",
	Optimized:  "Optimized",
	CEDH:       "cEDH",
	Budget:     "Budget",
	Expensive:  "Expensive",
	All:        "All",
}

// Normalize maps a user or URL supplied bracket to its canonical token.
// Sub-paths are normalized segment by segment and joined with "/"; the
// legacy dash form "exhibition-budget" becomes "exhibition/budget".
// Unrecognized input comes back trimmed and lowercased, empty input as "".
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	parts := strings.Split(strings.Trim(s, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens, ok := segment(strings.TrimSpace(p))
		if !ok {
			return s
		}
		out = append(out, tokens...)
	}
	return strings.Join(out, "/")
}

// segment resolves one path segment to one or two canonical tokens.
func segment(p string) ([]string, bool) {
	if p == "" {
		return nil, false
	}
	if t, ok := token(p); ok {
		return []string{t}, true
	}
	// Legacy "<bracket>-<modifier>" form.
	i := strings.LastIndexByte(p, '-')
	if i <= 0 || i == len(p)-1 {
		return nil, false
	}
	base, ok := token(p[:i])
	if !ok || base == Budget || base == Expensive {
		return nil, false
	}
	mod, ok := aliases[p[i+1:]]
	if !ok || (mod != Budget && mod != Expensive) {
		return nil, false
	}
	return []string{base, mod}, true
}

func token(p string) (string, bool) {
	if t, ok := aliases[p]; ok {
		return t, true
	}
	// bracket-3, bracket3, bracket 3
	if rest, ok := strings.CutPrefix(p, "bracket"); ok {
		rest = strings.TrimLeft(rest, "- _")
		if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '5' {
			return aliases[rest], true
		}
	}
	return "", false
}

// IsKnown reports whether raw normalizes to canonical tokens.
func IsKnown(raw string) bool {
	n := Normalize(raw)
	if n == "" {
		return false
	}
	for _, p := range strings.Split(n, "/") {
		if _, ok := displayNames[p]; !ok || p == All {
			return false
		}
	}
	return true
}

// Display renders a bracket for people: "optimized" is "Optimized",
// "exhibition/budget" is "Exhibition (Budget)". Unknown tokens pass through.
func Display(raw string) string {
	n := Normalize(raw)
	if name, ok := displayNames[n]; ok {
		return name
	}
	parts := strings.Split(n, "/")
	if len(parts) != 2 {
		return n
	}
	base, okBase := displayNames[parts[0]]
	mod, okMod := displayNames[parts[1]]
	if !okBase || !okMod {
		return n
	}
	return base + " (" + mod + ")"
}
