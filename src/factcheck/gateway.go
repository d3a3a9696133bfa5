package factcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stake-plus/capapp/src/logging"
	"github.com/stake-plus/capapp/src/metrics"
	"go.uber.org/zap"
)

// Provider names the source that produced a verdict.
type Provider string

const (
	ProviderGoogle     Provider = "google"
	ProviderPerplexity Provider = "perplexity"
)

// StructuredSource looks a statement up in a database of published fact-checks.
type StructuredSource interface {
	Search(ctx context.Context, statement string) ([]ClaimRecord, error)
}

// GenerativeSource classifies a statement with a language model.
type GenerativeSource interface {
	Classify(ctx context.Context, statement string) (*GeneratedVerdict, error)
}

// Gateway resolves statements against the structured source first and falls back to
// the generative source only when the structured source succeeded with no matches.
type Gateway struct {
	structured StructuredSource
	generative GenerativeSource
	timeout    time.Duration
	logger     *zap.Logger
}

// NewGateway wires the two sources. timeout bounds each upstream call separately.
func NewGateway(structured StructuredSource, generative GenerativeSource, timeout time.Duration, logger *zap.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		structured: structured,
		generative: generative,
		timeout:    timeout,
		logger:     logger,
	}
}

// Outcome is the result of one verification.
type Outcome struct {
	Statement string
	Records   []ClaimRecord
	Generated *GeneratedVerdict
	// Err is set when the structured source failed. The fallback is not consulted then.
	Err error
}

// Verify runs the two-tier lookup for statement.
func (g *Gateway) Verify(ctx context.Context, statement string) Outcome {
	out := Outcome{Statement: statement}

	records, err := g.searchStructured(ctx, statement)
	if err != nil {
		out.Err = err
		return out
	}
	if len(records) > 0 {
		out.Records = records
		return out
	}

	out.Generated = g.classifyGenerative(ctx, statement)
	return out
}

func (g *Gateway) searchStructured(ctx context.Context, statement string) ([]ClaimRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	records, err := g.structured.Search(ctx, statement)
	metrics.UpstreamDuration.WithLabelValues(string(ProviderGoogle)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(string(ProviderGoogle)).Inc()
		g.logger.Warn("gateway: structured lookup failed",
			zap.Error(err), zap.Bool("rate_limited", logging.IsRateLimit(err)))
		return nil, err
	}
	return records, nil
}

func (g *Gateway) classifyGenerative(ctx context.Context, statement string) *GeneratedVerdict {
	if g.generative == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	verdict, err := g.generative.Classify(ctx, statement)
	metrics.UpstreamDuration.WithLabelValues(string(ProviderPerplexity)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(string(ProviderPerplexity)).Inc()
		g.logger.Warn("gateway: generative fallback failed",
			zap.Error(err), zap.Bool("rate_limited", logging.IsRateLimit(err)))
		return nil
	}
	return verdict
}

// Resolved reports whether the outcome carries a verdict.
func (o Outcome) Resolved() bool {
	return o.Err == nil && (len(o.Records) > 0 || o.Generated != nil)
}

// Provider returns which source produced the verdict, or "" when none did.
func (o Outcome) Provider() Provider {
	switch {
	case o.Err != nil:
		return ""
	case len(o.Records) > 0:
		return ProviderGoogle
	case o.Generated != nil:
		return ProviderPerplexity
	}
	return ""
}

// PrimaryIndex selects the structured record that represents the outcome: the first
// adverse record, or the first record when none is adverse.
func (o Outcome) PrimaryIndex() int {
	for i, r := range o.Records {
		if r.Normalized().Verdict.Adverse() {
			return i
		}
	}
	return 0
}

// Primary returns the representative structured record. ok is false when the outcome
// has no structured records.
func (o Outcome) Primary() (ClaimRecord, bool) {
	if len(o.Records) == 0 {
		return ClaimRecord{}, false
	}
	return o.Records[o.PrimaryIndex()], true
}

// Verdict returns the verdict of the primary record or of the generated classification.
func (o Outcome) Verdict() Verdict {
	if rec, ok := o.Primary(); ok {
		return rec.Normalized().Verdict
	}
	if o.Generated != nil {
		return o.Generated.Verdict
	}
	return VerdictOther
}

// Adverse reports whether any structured record, or the generated verdict, is False
// or Misleading.
func (o Outcome) Adverse() bool {
	if !o.Resolved() {
		return false
	}
	return o.Verdict().Adverse()
}

// ErrorMessage renders a structured-source failure for display.
func (o Outcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	var statusErr *StatusError
	switch {
	case errors.Is(o.Err, ErrMissingGoogleKey):
		return "⚠️ GOOGLE_API_KEY is not set in environment variables."
	case errors.As(o.Err, &statusErr):
		return fmt.Sprintf("⚠️ Google Fact Check API error: HTTP %d", statusErr.Code)
	default:
		return "⚠️ Error contacting Google Fact Check API."
	}
}
