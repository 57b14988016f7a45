package hunt

import (
	"fmt"
)

// hintAdvanceRetries bounds the CAS retry loop when concurrent requests race
// on the same cursor.
const hintAdvanceRetries = 3

// Dispenser serves location hints in order, advancing the progress cursor.
type Dispenser struct {
	tokens   TokenStore
	hints    HintStore
	progress ProgressStore
}

func NewDispenser(tokens TokenStore, hints HintStore, progress ProgressStore) *Dispenser {
	return &Dispenser{
		tokens:   tokens,
		hints:    hints,
		progress: progress,
	}
}

type HintResult struct {
	Hint        string
	NoMoreHints bool
}

// GetNextHint returns the hint at the progress cursor and advances the
// cursor by one. Once the cursor passes the last defined hint, every call
// returns the no-more-hints sentinel and the cursor stays put. The advance is
// an optimistic compare-and-swap so racing requests cannot skip or
// double-advance the cursor.
func (s *Dispenser) GetNextHint(token string) (*HintResult, error) {
	at, err := resolveToken(s.tokens, token)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < hintAdvanceRetries; attempt++ {
		progress, _, err := s.progress.GetOrCreateProgress(at.UserID, at.LocationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}

		hint, err := s.hints.GetHint(at.LocationID, progress.CurrentHint)
		if err != nil {
			return nil, fmt.Errorf("failed to load hint: %w", err)
		}
		if hint == nil {
			return &HintResult{NoMoreHints: true}, nil
		}

		advanced, err := s.progress.AdvanceHintCursor(at.UserID, at.LocationID, progress.CurrentHint)
		if err != nil {
			return nil, fmt.Errorf("failed to advance hint cursor: %w", err)
		}
		if advanced {
			return &HintResult{Hint: hint.Text}, nil
		}
		// Lost the CAS to a concurrent request; re-read the cursor.
	}

	return nil, fmt.Errorf("hint cursor contention for user %d location %d", at.UserID, at.LocationID)
}
