package factcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStructured struct {
	records []ClaimRecord
	err     error
	calls   int
}

func (f *fakeStructured) Search(ctx context.Context, statement string) ([]ClaimRecord, error) {
	f.calls++
	return f.records, f.err
}

type fakeGenerative struct {
	verdict *GeneratedVerdict
	err     error
	calls   int
}

func (f *fakeGenerative) Classify(ctx context.Context, statement string) (*GeneratedVerdict, error) {
	f.calls++
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return nil, errors.New("missing deadline")
	}
	return f.verdict, f.err
}

func TestGatewayFallbackOnlyOnEmptyResult(t *testing.T) {
	generated := ParseGenerated("Verdict: True\nReason: ok")

	tests := []struct {
		name         string
		structured   *fakeStructured
		wantFallback bool
	}{
		{"empty result falls back", &fakeStructured{}, true},
		{"records skip fallback", &fakeStructured{records: []ClaimRecord{{Rating: "True"}}}, false},
		{"transport error skips fallback", &fakeStructured{err: errors.New("dial tcp: refused")}, false},
		{"missing key skips fallback", &fakeStructured{err: ErrMissingGoogleKey}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerative{verdict: &generated}
			gw := NewGateway(tt.structured, gen, time.Second, nil)

			out := gw.Verify(context.Background(), "claim")
			assert.Equal(t, 1, tt.structured.calls)
			if tt.wantFallback {
				assert.Equal(t, 1, gen.calls)
				require.NotNil(t, out.Generated)
				assert.Equal(t, ProviderPerplexity, out.Provider())
			} else {
				assert.Zero(t, gen.calls)
				assert.Nil(t, out.Generated)
			}
		})
	}
}

func TestGatewayGenerativeFailureIsNoVerdict(t *testing.T) {
	gw := NewGateway(&fakeStructured{}, &fakeGenerative{err: ErrMissingPerplexityKey}, time.Second, nil)
	out := gw.Verify(context.Background(), "claim")

	assert.NoError(t, out.Err)
	assert.Nil(t, out.Generated)
	assert.False(t, out.Resolved())
	assert.False(t, out.Adverse())
	assert.Equal(t, Provider(""), out.Provider())
}

func TestGatewayScenarioStructuredPantsOnFire(t *testing.T) {
	rec := ClaimRecord{Claim: "the sky is green", Rating: "Pants on Fire", Publisher: "PolitiFact", URL: "https://p.example"}
	gw := NewGateway(&fakeStructured{records: []ClaimRecord{rec}}, &fakeGenerative{}, time.Second, nil)

	out := gw.Verify(context.Background(), "the sky is green")
	require.True(t, out.Resolved())
	assert.Equal(t, ProviderGoogle, out.Provider())
	assert.Equal(t, VerdictFalse, out.Verdict())
	assert.Equal(t, ColorRed, out.Verdict().Color())
	assert.True(t, out.Adverse())
}

func TestGatewayScenarioGenerativeMisleading(t *testing.T) {
	generated := ParseGenerated("Verdict: Misleading\nReason: Partially accurate\nSources: site-a\nsite-b")
	gw := NewGateway(&fakeStructured{}, &fakeGenerative{verdict: &generated}, time.Second, nil)

	out := gw.Verify(context.Background(), "claim")
	require.NotNil(t, out.Generated)
	assert.Equal(t, VerdictMisleading, out.Verdict())
	assert.Equal(t, "Partially accurate", out.Generated.Reason)
	assert.Len(t, out.Generated.Sources, 2)
	assert.True(t, out.Adverse())
}

func TestOutcomeAnyMatchAdversePolicy(t *testing.T) {
	out := Outcome{Records: []ClaimRecord{
		{Rating: "True"},
		{Rating: "Mostly misleading"},
		{Rating: "False"},
	}}
	assert.True(t, out.Adverse())
	assert.Equal(t, 1, out.PrimaryIndex())
	assert.Equal(t, VerdictMisleading, out.Verdict())

	benign := Outcome{Records: []ClaimRecord{{Rating: "True"}, {Rating: "Correct"}}}
	assert.False(t, benign.Adverse())
	assert.Equal(t, 0, benign.PrimaryIndex())
}

func TestOutcomeErrorMessage(t *testing.T) {
	assert.Empty(t, Outcome{}.ErrorMessage())
	assert.Contains(t, Outcome{Err: ErrMissingGoogleKey}.ErrorMessage(), "GOOGLE_API_KEY")
	assert.Equal(t, "⚠️ Google Fact Check API error: HTTP 500",
		Outcome{Err: &StatusError{Upstream: "google", Code: 500}}.ErrorMessage())
	assert.Equal(t, "⚠️ Error contacting Google Fact Check API.",
		Outcome{Err: errors.New("boom")}.ErrorMessage())
}
