package hunt

import (
	"log/slog"
)

// Participation log labels for actions callers may layer on.
const (
	ActionQRScanned = "qr scanned"
)

// Recorder appends entries to the immutable participation log. Writes are
// fire-and-forget: a log failure must never fail the calling operation, so it
// is logged and swallowed here.
type Recorder struct {
	store ParticipationStore
}

func NewRecorder(store ParticipationStore) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(userID, locationID int64, action string) {
	if err := r.store.RecordParticipation(userID, locationID, action); err != nil {
		slog.Error("failed to record participation",
			"user_id", userID,
			"location_id", locationID,
			"action", action,
			"error", err,
		)
	}
}
