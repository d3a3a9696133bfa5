package present

import (
	"strings"
	"testing"

	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/factcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldValue(t *testing.T, v View, name string) string {
	t.Helper()
	require.NotEmpty(t, v.Embeds)
	for _, f := range v.Embeds[0].Fields {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("field %q not found", name)
	return ""
}

func TestClaimView(t *testing.T) {
	v := ClaimView(TitleGoogle, factcheck.ClaimRecord{
		Claim:      "the sky is green",
		Rating:     "Pants on Fire",
		Publisher:  "PolitiFact",
		URL:        "https://example.org/check",
		ReviewDate: "2024-05-01",
	})

	assert.Equal(t, factcheck.ColorRed, v.Embeds[0].Color)
	assert.Equal(t, "False", fieldValue(t, v, "Verdict"))
	assert.Equal(t, "Pants on Fire", fieldValue(t, v, "Original Rating"))
	assert.Equal(t, "PolitiFact", fieldValue(t, v, "Publisher"))
	assert.Equal(t, "[Link](https://example.org/check)", fieldValue(t, v, "Source"))
	assert.Equal(t, "2024-05-01", fieldValue(t, v, "Reviewed Date"))
	assert.Contains(t, fieldValue(t, v, "Claim"), "the sky is green")
}

func TestGeneratedViewLimits(t *testing.T) {
	sources := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	v := GeneratedView(TitlePerplexity, "stmt", factcheck.GeneratedVerdict{
		Verdict: factcheck.VerdictMisleading,
		Reason:  strings.Repeat("r", 1500),
		Sources: sources,
	})

	assert.Equal(t, factcheck.ColorYellow, v.Embeds[0].Color)
	assert.Equal(t, "Misleading", fieldValue(t, v, "Verdict"))
	assert.Len(t, []rune(fieldValue(t, v, "Reasoning")), 1000)
	assert.Equal(t, "s1\ns2\ns3\ns4\ns5\ns6", fieldValue(t, v, "Sources"))
}

func TestSingleViewPicksPrimaryRecord(t *testing.T) {
	out := factcheck.Outcome{Statement: "stmt", Records: []factcheck.ClaimRecord{
		{Claim: "a", Rating: "True"},
		{Claim: "b", Rating: "Misleading"},
	}}
	v := SingleView(TitleGoogle, out)
	assert.Equal(t, "Misleading", fieldValue(t, v, "Verdict"))

	none := SingleView(TitlePerplexity, factcheck.Outcome{Statement: "stmt"})
	assert.Equal(t, "❌ Could not get a response from Perplexity.", none.Content)
	assert.Empty(t, none.Embeds)
}

func TestAlertView(t *testing.T) {
	out := factcheck.Outcome{Statement: "stmt", Generated: &factcheck.GeneratedVerdict{
		Verdict: factcheck.VerdictFalse, Reason: "nope",
	}}
	v := AlertView("42", "alice", out)
	assert.Equal(t, "⚠️ False or misleading claim detected from <@42>.", v.Content)
	assert.Equal(t, "Fact-Check Alert for alice", v.Embeds[0].Title)
	assert.Equal(t, "⚠️ False or misleading claim detected from <@42> in <#7>.", NotifyText("42", "7"))
}

func TestStatsView(t *testing.T) {
	v := StatsView(audit.Summary{Total: 3, Counts: []audit.VerdictCount{
		{Verdict: "True", Count: 1},
		{Verdict: "False", Count: 2},
	}})
	assert.Contains(t, v.Embeds[0].Description, "**3**")
	assert.Equal(t, "2", fieldValue(t, v, "False"))
}
