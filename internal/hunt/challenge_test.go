package hunt

import (
	"errors"
	"testing"
	"time"

	"github.com/JosueZ99/treasure-hunt-app/internal/database"
	"github.com/JosueZ99/treasure-hunt-app/internal/hunt/hunttest"
	"github.com/google/uuid"
)

// newChallengeFixture seeds a user, a location with a challenge worth 10
// points, and a valid access token for the pair.
func newChallengeFixture(t *testing.T) (*hunttest.Store, *Engine, string) {
	t.Helper()

	store := hunttest.NewStore()
	store.AddUser(1, "alice@example.com", "Alice", "Lopez")
	store.AddLocation(42, "Central Park", "LOC42")
	store.AddChallenge(42, "Which statue overlooks the lake?", "Liberty", 10)

	token := uuid.NewString()
	now := time.Now()
	store.AddToken(&database.AccessToken{
		Token:      token,
		UserID:     1,
		LocationID: 42,
		CreatedAt:  now,
		ExpiresAt:  now.Add(15 * time.Minute),
	})

	engine := NewEngine(store, store, store, store)
	return store, engine, token
}

func TestGetChallenge(t *testing.T) {
	_, engine, token := newChallengeFixture(t)

	challenge, err := engine.GetChallenge(token)
	if err != nil {
		t.Fatalf("GetChallenge failed: %v", err)
	}

	if challenge.Question != "Which statue overlooks the lake?" {
		t.Errorf("unexpected question: %q", challenge.Question)
	}
	if challenge.Points != 10 {
		t.Errorf("expected 10 points, got %d", challenge.Points)
	}
}

func TestGetChallengeTokenErrors(t *testing.T) {
	store, engine, _ := newChallengeFixture(t)

	expired := uuid.NewString()
	store.AddToken(&database.AccessToken{
		Token:      expired,
		UserID:     1,
		LocationID: 42,
		CreatedAt:  time.Now().Add(-time.Hour),
		ExpiresAt:  time.Now().Add(-45 * time.Minute),
	})

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"malformed token", "not-a-uuid", ErrMalformedToken},
		{"unknown token", uuid.NewString(), ErrInvalidToken},
		{"expired token", expired, ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.GetChallenge(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGetChallengeNoChallengeAvailable(t *testing.T) {
	store := hunttest.NewStore()
	store.AddLocation(7, "Empty Plaza", "LOC7")

	token := uuid.NewString()
	now := time.Now()
	store.AddToken(&database.AccessToken{
		Token: token, UserID: 1, LocationID: 7,
		CreatedAt: now, ExpiresAt: now.Add(15 * time.Minute),
	})

	engine := NewEngine(store, store, store, store)

	_, err := engine.GetChallenge(token)
	if !errors.Is(err, ErrNoChallenge) {
		t.Fatalf("expected ErrNoChallenge, got %v", err)
	}
}

func TestGetChallengeAfterCompletion(t *testing.T) {
	_, engine, token := newChallengeFixture(t)

	if _, err := engine.ValidateAnswer(token, "Liberty"); err != nil {
		t.Fatal(err)
	}

	_, err := engine.GetChallenge(token)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestValidateAnswerWrong(t *testing.T) {
	store, engine, token := newChallengeFixture(t)

	result, err := engine.ValidateAnswer(token, "Neptune")
	if err != nil {
		t.Fatalf("ValidateAnswer failed: %v", err)
	}

	if result.Correct {
		t.Error("wrong answer reported as correct")
	}
	if result.Points != 0 {
		t.Errorf("wrong answer must award no points, got %d", result.Points)
	}

	progress := store.Progress(1, 42)
	if progress.Completed || progress.PointsEarned != 0 {
		t.Error("wrong answer must not mutate progress")
	}
	if store.Points(1) != 0 {
		t.Error("wrong answer must not touch the leaderboard")
	}
}

func TestValidateAnswerUnlimitedRetries(t *testing.T) {
	_, engine, token := newChallengeFixture(t)

	for i := 0; i < 5; i++ {
		result, err := engine.ValidateAnswer(token, "wrong again")
		if err != nil {
			t.Fatalf("retry %d failed: %v", i, err)
		}
		if result.Correct {
			t.Fatal("wrong answer reported as correct")
		}
	}
}

func TestValidateAnswerCorrect(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"exact", "Liberty"},
		{"lower case", "liberty"},
		{"upper case", "LIBERTY"},
		{"surrounding whitespace", "  liberty  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, engine, token := newChallengeFixture(t)

			result, err := engine.ValidateAnswer(token, tt.answer)
			if err != nil {
				t.Fatalf("ValidateAnswer failed: %v", err)
			}

			if !result.Correct {
				t.Fatal("correct answer rejected")
			}
			if result.Points != 10 {
				t.Errorf("expected 10 points, got %d", result.Points)
			}

			progress := store.Progress(1, 42)
			if !progress.Completed {
				t.Error("progress should be marked completed")
			}
			if progress.CompletedAt == nil {
				t.Error("completed_at should be set")
			}
			if progress.PointsEarned != 10 {
				t.Errorf("expected points_earned 10, got %d", progress.PointsEarned)
			}
			if store.Points(1) != 10 {
				t.Errorf("expected leaderboard total 10, got %d", store.Points(1))
			}

			events := store.Events()
			if len(events) != 1 {
				t.Fatalf("expected one participation event, got %d", len(events))
			}
			if events[0].Action != ActionChallengeCompleted {
				t.Errorf("unexpected action label %q", events[0].Action)
			}
		})
	}
}

func TestValidateAnswerOnlyCommitsOnce(t *testing.T) {
	store, engine, token := newChallengeFixture(t)

	if _, err := engine.ValidateAnswer(token, "liberty"); err != nil {
		t.Fatal(err)
	}

	_, err := engine.ValidateAnswer(token, "liberty")
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted on re-submission, got %v", err)
	}

	progress := store.Progress(1, 42)
	if progress.PointsEarned != 10 {
		t.Errorf("points_earned changed after completion: %d", progress.PointsEarned)
	}
	if store.Points(1) != 10 {
		t.Errorf("leaderboard incremented more than once: %d", store.Points(1))
	}
}

func TestScanToCompletionScenario(t *testing.T) {
	store := hunttest.NewStore()
	store.AddUser(1, "alice@example.com", "Alice", "Lopez")
	store.AddLocation(42, "Central Park", "LOC42")
	store.AddChallenge(42, "Which statue overlooks the lake?", "Liberty", 10)

	issuer := NewIssuer(testConfig(), store, store, store)
	engine := NewEngine(store, store, store, store)

	issued, err := issuer.IssueToken(1, "LOC42")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if issued.LocationName != "Central Park" {
		t.Errorf("unexpected location %q", issued.LocationName)
	}

	if _, err := engine.GetChallenge(issued.Token); err != nil {
		t.Fatalf("GetChallenge failed: %v", err)
	}

	wrong, err := engine.ValidateAnswer(issued.Token, "wrong")
	if err != nil || wrong.Correct {
		t.Fatalf("wrong answer should return correct=false without error, got %v %v", wrong, err)
	}
	if p := store.Progress(1, 42); p.Completed {
		t.Fatal("progress mutated by wrong answer")
	}

	right, err := engine.ValidateAnswer(issued.Token, "LiBeRtY")
	if err != nil {
		t.Fatalf("correct answer failed: %v", err)
	}
	if !right.Correct || right.Points != 10 {
		t.Fatalf("expected correct with 10 points, got %+v", right)
	}
	if store.Points(1) != 10 {
		t.Errorf("expected leaderboard total 10, got %d", store.Points(1))
	}
}
