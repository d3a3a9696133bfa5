package factcheck

import (
	"regexp"
	"strings"
)

const defaultReason = "No reasoning provided."

var (
	verdictPattern = regexp.MustCompile(`(?i)Verdict:\s*(True|False|Misleading|Other)`)
	reasonPattern  = regexp.MustCompile(`(?is)Reason:\s*(.*?)(?:Sources:|$)`)
	sourcesPattern = regexp.MustCompile(`(?is)Sources:\s*(.*)`)
)

// ParseGenerated extracts the verdict, reasoning and sources from a free-text model
// response. Missing sections fall back to defaults so the result is always renderable.
func ParseGenerated(content string) GeneratedVerdict {
	out := GeneratedVerdict{
		Verdict: VerdictOther,
		Reason:  defaultReason,
		Sources: []string{},
		Raw:     content,
	}

	if m := verdictPattern.FindStringSubmatch(content); m != nil {
		out.Verdict = ParseVerdict(m[1])
	}
	if m := reasonPattern.FindStringSubmatch(content); m != nil {
		if reason := strings.TrimSpace(m[1]); reason != "" {
			out.Reason = reason
		}
	}
	if m := sourcesPattern.FindStringSubmatch(content); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			if src := strings.TrimSpace(line); src != "" {
				out.Sources = append(out.Sources, src)
			}
		}
	}
	return out
}
