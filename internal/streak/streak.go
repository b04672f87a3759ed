// Package streak tracks consecutive runs with zero qualifying insider
// activity. The counter is the only durable cross-run state in the system.
package streak

import (
	"context"
	"encoding/json"
	"time"

	"github.com/newthinker/insiderlog/internal/core"
	"github.com/newthinker/insiderlog/internal/storage/archive"
	"go.uber.org/zap"
)

// DefaultPath is where the state record lives under the archive root.
const DefaultPath = "state/quiet_streak.json"

type record struct {
	ConsecutiveQuietRuns int       `json:"consecutive_quiet_runs"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Tracker persists the quiet-run counter through archive storage.
type Tracker struct {
	store  archive.Storage
	path   string
	logger *zap.Logger
}

// New creates a tracker. An empty path uses DefaultPath.
func New(store archive.Storage, path string, logger *zap.Logger) *Tracker {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: store, path: path, logger: logger}
}

// Current returns the persisted streak without modifying it. A missing or
// unreadable record reads as zero; state problems never fail a run.
func (t *Tracker) Current(ctx context.Context) int {
	data, err := t.store.Read(ctx, t.path)
	if err != nil {
		t.logger.Debug("no prior streak state, starting at zero", zap.Error(err))
		return 0
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.logger.Warn("streak state corrupt, treating as zero", zap.Error(err))
		return 0
	}
	if rec.ConsecutiveQuietRuns < 0 {
		return 0
	}
	return rec.ConsecutiveQuietRuns
}

// Update applies one run's outcome and persists the new streak. Any run
// with qualifying activity resets the streak to zero; a quiet run
// increments it by exactly one. The new value is returned even when the
// write fails; the write error is reported so the caller can log it.
func (t *Tracker) Update(ctx context.Context, hadActivity bool) (int, error) {
	next := 0
	if !hadActivity {
		next = t.Current(ctx) + 1
	}

	data, err := json.Marshal(record{
		ConsecutiveQuietRuns: next,
		UpdatedAt:            time.Now().UTC(),
	})
	if err != nil {
		return next, core.WrapError(core.ErrStateWrite, err)
	}
	if err := t.store.Write(ctx, t.path, data); err != nil {
		return next, core.WrapError(core.ErrStateWrite, err)
	}
	return next, nil
}
