// Package telemetry records rolls into the journal.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/loadeddie/internal/storage"
)

// Recorder appends roll records to a journal.
type Recorder struct {
	store storage.RollStore
	clock func() time.Time
}

// NewRecorder creates a recorder backed by store.
func NewRecorder(store storage.RollStore) *Recorder {
	return &Recorder{store: store, clock: time.Now}
}

// Record journals one roll, stamping RolledAt when it is zero. It is a no-op
// when the recorder or its store is nil.
func (r *Recorder) Record(ctx context.Context, record storage.RollRecord) error {
	if r == nil || r.store == nil {
		return nil
	}
	if record.RolledAt.IsZero() {
		if r.clock == nil {
			record.RolledAt = time.Now().UTC()
		} else {
			record.RolledAt = r.clock().UTC()
		}
	}
	return r.store.AppendRoll(ctx, record)
}
