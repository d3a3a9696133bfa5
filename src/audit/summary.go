package audit

import (
	"sort"

	"github.com/stake-plus/capapp/src/factcheck"
)

// VerdictCount is the number of entries with one verdict.
type VerdictCount struct {
	Verdict string
	Count   int
}

// Summary aggregates the audit log for the stats command.
type Summary struct {
	Total  int
	Counts []VerdictCount
}

var verdictOrder = map[string]int{
	string(factcheck.VerdictTrue):       0,
	string(factcheck.VerdictFalse):      1,
	string(factcheck.VerdictMisleading): 2,
	string(factcheck.VerdictOther):      3,
}

// Summarize counts entries per verdict. Canonical verdicts come first in enum order,
// anything else follows alphabetically. Entries without a verdict count as "Unknown".
func Summarize(entries []Entry) Summary {
	counts := map[string]int{}
	for _, e := range entries {
		v := e.Verdict
		if v == "" {
			v = "Unknown"
		}
		counts[v]++
	}

	out := Summary{Total: len(entries)}
	for v, n := range counts {
		out.Counts = append(out.Counts, VerdictCount{Verdict: v, Count: n})
	}
	sort.Slice(out.Counts, func(i, j int) bool {
		a, aKnown := verdictOrder[out.Counts[i].Verdict]
		b, bKnown := verdictOrder[out.Counts[j].Verdict]
		switch {
		case aKnown && bKnown:
			return a < b
		case aKnown != bKnown:
			return aKnown
		default:
			return out.Counts[i].Verdict < out.Counts[j].Verdict
		}
	})
	return out
}
