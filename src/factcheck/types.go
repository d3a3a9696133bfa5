package factcheck

import (
	"errors"
	"fmt"
)

// ClaimRecord is one published review of a claim, as returned by the structured source.
type ClaimRecord struct {
	Claim      string
	Rating     string
	Publisher  string
	URL        string
	ReviewDate string
}

// Normalized returns the verdict implied by the record's rating.
func (r ClaimRecord) Normalized() NormalizedRating {
	return NormalizeRating(r.Rating)
}

// GeneratedVerdict is the classification produced by the generative fallback.
type GeneratedVerdict struct {
	Verdict Verdict
	Reason  string
	Sources []string
	Raw     string
}

// Color returns the display color for the generated verdict.
func (g GeneratedVerdict) Color() int {
	return g.Verdict.Color()
}

var (
	ErrMissingGoogleKey     = errors.New("factcheck: google api key not configured")
	ErrMissingPerplexityKey = errors.New("factcheck: perplexity api key not configured")
	ErrEmptyStatement       = errors.New("factcheck: statement is empty")
)

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Upstream string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.Upstream, e.Code)
}
