package audit

import (
	"context"

	"github.com/stake-plus/capapp/src/factcheck"
	"github.com/stake-plus/capapp/src/metrics"
	"go.uber.org/zap"
)

// Recorder turns verification outcomes into audit entries. Write failures are logged and
// swallowed so a broken log never blocks a reply or an alert.
type Recorder struct {
	store  Store
	logger *zap.Logger
}

func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger}
}

// Record appends an entry for out. It returns false when out has no verdict or the
// write failed.
func (r *Recorder) Record(ctx context.Context, trigger Trigger, userID, username string, out factcheck.Outcome) (Entry, bool) {
	entry, ok := NewEntry(trigger, userID, username, out)
	if !ok {
		return Entry{}, false
	}
	metrics.Verifications.WithLabelValues(entry.Source, entry.Verdict).Inc()

	stored, err := r.store.Append(ctx, entry)
	if err != nil {
		r.logger.Error("audit: append failed",
			zap.String("source", entry.Source), zap.String("user", userID), zap.Error(err))
		return Entry{}, false
	}
	return stored, true
}

// Summary loads the whole log and aggregates it.
func (r *Recorder) Summary(ctx context.Context) (Summary, error) {
	entries, err := r.store.ReadAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(entries), nil
}
