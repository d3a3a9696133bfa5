package factcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		rating  string
		verdict Verdict
		color   int
	}{
		{"True", VerdictTrue, ColorGreen},
		{"Mostly accurate", VerdictTrue, ColorGreen},
		{"Correct", VerdictTrue, ColorGreen},
		{"False", VerdictFalse, ColorRed},
		{"Pants on Fire", VerdictFalse, ColorRed},
		{"PANTS ON FIRE!", VerdictFalse, ColorRed},
		{"Hoax", VerdictFalse, ColorRed},
		{"Incorrect", VerdictFalse, ColorRed},
		{"Inaccurate", VerdictFalse, ColorRed},
		{"Half true, half false", VerdictFalse, ColorRed},
		{"Misleading", VerdictMisleading, ColorYellow},
		{"Missing context", VerdictOther, ColorYellow},
		{"", VerdictOther, ColorYellow},
		{"   ", VerdictOther, ColorYellow},
	}
	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			got := NormalizeRating(tt.rating)
			assert.Equal(t, tt.verdict, got.Verdict)
			assert.Equal(t, tt.color, got.Color)
		})
	}
}

func TestNormalizeRatingIsDeterministic(t *testing.T) {
	for _, r := range []string{"false", "Misleading claim", "whatever"} {
		assert.Equal(t, NormalizeRating(r), NormalizeRating(r))
	}
}

func TestVerdictAdverse(t *testing.T) {
	assert.True(t, VerdictFalse.Adverse())
	assert.True(t, VerdictMisleading.Adverse())
	assert.False(t, VerdictTrue.Adverse())
	assert.False(t, VerdictOther.Adverse())
}

func TestParseVerdict(t *testing.T) {
	assert.Equal(t, VerdictFalse, ParseVerdict("FALSE"))
	assert.Equal(t, VerdictMisleading, ParseVerdict(" misleading "))
	assert.Equal(t, VerdictOther, ParseVerdict("unclear"))
}
