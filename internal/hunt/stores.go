package hunt

import (
	"github.com/JosueZ99/treasure-hunt-app/internal/database"
)

// Store interfaces keep the persistence layer swappable. *database.DB
// satisfies all of them; tests use the in-memory store from hunttest.

type LocationStore interface {
	GetLocationByQRCode(qrCode string) (*database.Location, error)
}

type ChallengeStore interface {
	GetChallengeByLocation(locationID int64) (*database.Challenge, error)
}

type HintStore interface {
	GetHint(locationID int64, order int) (*database.Hint, error)
}

type TokenStore interface {
	CreateAccessToken(token *database.AccessToken) error
	GetAccessToken(token string) (*database.AccessToken, error)
}

type ProgressStore interface {
	GetProgress(userID, locationID int64) (*database.UserProgress, error)
	GetOrCreateProgress(userID, locationID int64) (*database.UserProgress, bool, error)
	SetLastScannedQR(userID, locationID, scannedLocationID int64) error
	AdvanceHintCursor(userID, locationID int64, from int) (bool, error)
}

// CompletionStore applies the three completion writes (progress, leaderboard,
// participation log) as one atomic unit. It reports false, without writing
// anything, when the progress row is already completed.
type CompletionStore interface {
	CommitCompletion(userID, locationID int64, points int, action string) (bool, error)
}

type LeaderboardStore interface {
	EnsureLeaderboardEntry(userID int64) error
	ListLeaderboard() ([]database.LeaderboardEntry, error)
	GetLeaderboardEntry(userID int64) (*database.LeaderboardEntry, error)
}

type ParticipationStore interface {
	RecordParticipation(userID, locationID int64, action string) error
}

type UserStore interface {
	GetUser(userID int64) (*database.User, error)
}
