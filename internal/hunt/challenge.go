package hunt

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ActionChallengeCompleted is the participation log label written when a
// challenge is completed.
const ActionChallengeCompleted = "challenge completed"

// Engine resolves challenges for token holders and validates answers.
type Engine struct {
	tokens      TokenStore
	challenges  ChallengeStore
	progress    ProgressStore
	completions CompletionStore
}

func NewEngine(tokens TokenStore, challenges ChallengeStore, progress ProgressStore, completions CompletionStore) *Engine {
	return &Engine{
		tokens:      tokens,
		challenges:  challenges,
		progress:    progress,
		completions: completions,
	}
}

// ChallengeView is the challenge content shown to players. It never carries
// the correct answer.
type ChallengeView struct {
	Question string
	Points   int
	Options  []string
}

type AnswerResult struct {
	Correct bool
	Points  int
}

// GetChallenge returns the challenge gating the token's location.
func (s *Engine) GetChallenge(token string) (*ChallengeView, error) {
	at, err := resolveToken(s.tokens, token)
	if err != nil {
		return nil, err
	}

	progress, err := s.progress.GetProgress(at.UserID, at.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress != nil && progress.Completed {
		return nil, ErrAlreadyCompleted
	}

	challenge, err := s.challenges.GetChallengeByLocation(at.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrNoChallenge
	}

	return &ChallengeView{
		Question: challenge.Question,
		Points:   challenge.Points,
		Options:  []string(challenge.Options),
	}, nil
}

// ValidateAnswer checks the submitted answer against the location's
// challenge. A correct answer commits completion, leaderboard increment and
// participation log in one atomic unit, exactly once per (user, location).
// Wrong answers change nothing and may be retried without limit.
func (s *Engine) ValidateAnswer(token, answer string) (*AnswerResult, error) {
	at, err := resolveToken(s.tokens, token)
	if err != nil {
		return nil, err
	}

	progress, _, err := s.progress.GetOrCreateProgress(at.UserID, at.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress.Completed {
		return nil, ErrAlreadyCompleted
	}

	challenge, err := s.challenges.GetChallengeByLocation(at.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrNoChallenge
	}

	if !answersMatch(challenge.CorrectAnswer, answer) {
		return &AnswerResult{Correct: false}, nil
	}

	committed, err := s.completions.CommitCompletion(at.UserID, at.LocationID, challenge.Points, ActionChallengeCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}
	if !committed {
		// A racing submission completed the row first.
		return nil, ErrAlreadyCompleted
	}

	return &AnswerResult{
		Correct: true,
		Points:  challenge.Points,
	}, nil
}

// CommitCompletion is the combined update path: it marks the token's location
// complete and awards the challenge points without checking an answer. The
// completed flag guards the commit, so a second call for the same (user,
// location) fails instead of stacking points.
func (s *Engine) CommitCompletion(token string) error {
	at, err := resolveToken(s.tokens, token)
	if err != nil {
		return err
	}

	challenge, err := s.challenges.GetChallengeByLocation(at.LocationID)
	if err != nil {
		return fmt.Errorf("failed to load challenge: %w", err)
	}
	if challenge == nil {
		return ErrNoChallenge
	}

	if _, _, err := s.progress.GetOrCreateProgress(at.UserID, at.LocationID); err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	committed, err := s.completions.CommitCompletion(at.UserID, at.LocationID, challenge.Points, ActionChallengeCompleted)
	if err != nil {
		return fmt.Errorf("failed to commit completion: %w", err)
	}
	if !committed {
		return ErrAlreadyCompleted
	}

	return nil
}

// answersMatch compares answers after trimming surrounding whitespace and
// Unicode case folding. No accent folding.
func answersMatch(expected, submitted string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(expected)) == fold.String(strings.TrimSpace(submitted))
}
