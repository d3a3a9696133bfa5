package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stake-plus/capapp/src/factcheck"
)

// Trigger identifies how a verification was requested.
type Trigger string

const (
	TriggerCommand  Trigger = "command"
	TriggerPrefix   Trigger = "prefix"
	TriggerAutoscan Trigger = "autoscan"
)

// SourceTag combines trigger and provider, e.g. "autoscan-google".
func SourceTag(trigger Trigger, provider factcheck.Provider) string {
	return fmt.Sprintf("%s-%s", trigger, provider)
}

// Entry is one resolved verdict. Entries are never modified after they are appended.
// On disk the timestamp is epoch milliseconds; RFC 3339 strings are accepted on read.
type Entry struct {
	Source    string    `json:"source"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Verdict   string    `json:"verdict"`
	Rating    string    `json:"rating,omitempty"`
	Publisher string    `json:"publisher,omitempty"`
	URL       string    `json:"url,omitempty"`
	Statement string    `json:"statement"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry describes a resolved outcome. ok is false when the outcome carries no verdict.
// For structured outcomes the primary record supplies rating, publisher and URL.
func NewEntry(trigger Trigger, userID, username string, out factcheck.Outcome) (Entry, bool) {
	if !out.Resolved() {
		return Entry{}, false
	}
	e := Entry{
		Source:    SourceTag(trigger, out.Provider()),
		UserID:    userID,
		Username:  username,
		Verdict:   string(out.Verdict()),
		Statement: out.Statement,
	}
	if rec, ok := out.Primary(); ok {
		e.Rating = rec.Rating
		e.Publisher = rec.Publisher
		e.URL = rec.URL
	}
	return e, true
}

type plainEntry Entry

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		plainEntry
		Timestamp int64 `json:"timestamp"`
	}{plainEntry(e), e.Timestamp.UnixMilli()})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	aux := struct {
		*plainEntry
		Timestamp json.RawMessage `json:"timestamp"`
	}{plainEntry: (*plainEntry)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	ts, err := parseTimestamp(aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = ts
	return nil
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("audit: timestamp %q: %w", s, err)
		}
		return t.UTC(), nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("audit: timestamp %s: %w", raw, err)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
