package factcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGenerated(t *testing.T) {
	got := ParseGenerated("Verdict: Misleading\nReason: Partially accurate\nSources: site-a\nsite-b")
	assert.Equal(t, VerdictMisleading, got.Verdict)
	assert.Equal(t, "Partially accurate", got.Reason)
	assert.Equal(t, []string{"site-a", "site-b"}, got.Sources)
	assert.Equal(t, ColorYellow, got.Color())
}

func TestParseGeneratedDefaults(t *testing.T) {
	got := ParseGenerated("I cannot say.")
	assert.Equal(t, VerdictOther, got.Verdict)
	assert.Equal(t, defaultReason, got.Reason)
	assert.Empty(t, got.Sources)
	assert.NotNil(t, got.Sources)
}

func TestParseGeneratedTolerance(t *testing.T) {
	content := "verdict: false\n\nreason:   The sky is blue.\nIt scatters light.\n\nSOURCES:\n\n  https://a.example  \n\n- https://b.example\n"
	got := ParseGenerated(content)
	assert.Equal(t, VerdictFalse, got.Verdict)
	assert.Equal(t, "The sky is blue.\nIt scatters light.", got.Reason)
	assert.Equal(t, []string{"https://a.example", "- https://b.example"}, got.Sources)
	assert.Equal(t, ColorRed, got.Color())
}

func TestParseGeneratedUnknownVerdictWord(t *testing.T) {
	got := ParseGenerated("Verdict: Unverifiable\nReason: Nothing found")
	assert.Equal(t, VerdictOther, got.Verdict)
	assert.Equal(t, "Nothing found", got.Reason)
	assert.Empty(t, got.Sources)
}
