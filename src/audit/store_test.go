package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "logs", "factchecks.json"))
	require.NoError(t, err)
	return s
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	in := []Entry{
		{Source: "command-google", UserID: "1", Username: "alice", Verdict: "False", Rating: "Pants on Fire", Publisher: "PolitiFact", URL: "https://p.example", Statement: "the sky is green"},
		{Source: "autoscan-perplexity", UserID: "2", Username: "bob", Verdict: "Misleading", Statement: "water is dry"},
		{Source: "prefix-google", UserID: "1", Username: "alice", Verdict: "True", Statement: "grass is green"},
	}
	for _, e := range in {
		_, err := s.Append(ctx, e)
		require.NoError(t, err)
	}

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(in))
	for i := range in {
		want := in[i]
		want.Timestamp = base.Add(time.Duration(i+1) * time.Second)
		assert.Equal(t, want, got[i])
	}
}

func TestFileStoreMissingAndEmptyFile(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, os.WriteFile(s.Path(), []byte("  \n"), 0o644))
	got, err = s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreKeepsCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	_, err := s.Append(context.Background(), Entry{Verdict: "True"})
	require.Error(t, err)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestNewFileStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewFileStore(" ")
	assert.Error(t, err)
}

func TestFileStoreAppendsToLegacyLog(t *testing.T) {
	s := newTestStore(t)
	legacy := `[
  {
    "source": "manual-google",
    "userId": "42",
    "username": "carol",
    "verdict": "False",
    "rating": "False",
    "publisher": "Snopes",
    "url": "https://s.example",
    "statement": "the moon is cheese",
    "timestamp": 1712345678901
  },
  {
    "source": "autoscan-perplexity",
    "userId": "43",
    "username": "dave",
    "verdict": "True",
    "statement": "water is wet",
    "timestamp": "2024-04-05T19:34:38.901Z"
  }
]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0o644))
	s.now = func() time.Time { return time.UnixMilli(1712400000000) }

	got, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "manual-google", got[0].Source)
	assert.Equal(t, "Snopes", got[0].Publisher)
	assert.Equal(t, time.UnixMilli(1712345678901).UTC(), got[0].Timestamp)
	assert.Equal(t, time.UnixMilli(1712345678901).UTC(), got[1].Timestamp)

	_, err = s.Append(context.Background(), Entry{Source: "prefix-google", UserID: "1", Verdict: "Misleading", Statement: "s"})
	require.NoError(t, err)

	got, err = s.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "the moon is cheese", got[0].Statement)
	assert.Equal(t, time.UnixMilli(1712400000000).UTC(), got[2].Timestamp)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timestamp": 1712345678901`)
	assert.Contains(t, string(raw), `"timestamp": 1712400000000`)
}

func TestEntryTimestampJSON(t *testing.T) {
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`{"verdict":"True","timestamp":null}`), &e))
	assert.True(t, e.Timestamp.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"timestamp":"yesterday"}`), &e))

	e = Entry{Verdict: "False", Timestamp: time.UnixMilli(1700000000123)}
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timestamp":1700000000123`)
	assert.Contains(t, string(raw), `"verdict":"False"`)
}
