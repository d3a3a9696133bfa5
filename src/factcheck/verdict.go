package factcheck

import "strings"

// Verdict is the canonical outcome of a fact-check.
type Verdict string

const (
	VerdictTrue       Verdict = "True"
	VerdictFalse      Verdict = "False"
	VerdictMisleading Verdict = "Misleading"
	VerdictOther      Verdict = "Other"
)

// Embed colors per verdict.
const (
	ColorGreen  = 0x00FF00
	ColorRed    = 0xFF0000
	ColorYellow = 0xFFFF00
)

// Color returns the display color bound to the verdict.
func (v Verdict) Color() int {
	switch v {
	case VerdictTrue:
		return ColorGreen
	case VerdictFalse:
		return ColorRed
	default:
		return ColorYellow
	}
}

// Adverse reports whether the verdict should raise an alert.
func (v Verdict) Adverse() bool {
	return v == VerdictFalse || v == VerdictMisleading
}

// ParseVerdict maps a case-insensitive verdict name onto the enum. Unknown names map to Other.
func ParseVerdict(raw string) Verdict {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return VerdictTrue
	case "false":
		return VerdictFalse
	case "misleading":
		return VerdictMisleading
	default:
		return VerdictOther
	}
}

// NormalizedRating is a verdict derived from a publisher's free-text rating.
type NormalizedRating struct {
	Verdict Verdict
	Color   int
}

// Checked in order. Negative ratings come first because "incorrect" and "inaccurate"
// contain "correct" and "accurate".
var ratingRules = []struct {
	verdict  Verdict
	keywords []string
}{
	{VerdictFalse, []string{"false", "incorrect", "inaccurate", "hoax", "pants on fire"}},
	{VerdictMisleading, []string{"misleading"}},
	{VerdictTrue, []string{"true", "accurate", "correct"}},
}

// NormalizeRating maps a publisher's textual rating onto a verdict. It never fails:
// empty or unrecognized ratings normalize to Other.
func NormalizeRating(rating string) NormalizedRating {
	r := strings.ToLower(strings.TrimSpace(rating))
	if r == "" {
		return NormalizedRating{Verdict: VerdictOther, Color: VerdictOther.Color()}
	}
	for _, rule := range ratingRules {
		for _, kw := range rule.keywords {
			if strings.Contains(r, kw) {
				return NormalizedRating{Verdict: rule.verdict, Color: rule.verdict.Color()}
			}
		}
	}
	return NormalizedRating{Verdict: VerdictOther, Color: VerdictOther.Color()}
}
