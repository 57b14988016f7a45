package hunt

import (
	"fmt"
	"sort"
	"strings"
)

// Aggregator maintains the global ranking of cumulative points.
type Aggregator struct {
	entries LeaderboardStore
	users   UserStore
}

func NewAggregator(entries LeaderboardStore, users UserStore) *Aggregator {
	return &Aggregator{
		entries: entries,
		users:   users,
	}
}

type Ranking struct {
	Rank   int
	Name   string
	Email  string
	Points int
}

type UserSummary struct {
	Name   string
	Points int
}

// GetRanking returns all leaderboard entries sorted by total points
// descending, ties broken by user id ascending so the order is deterministic.
// Ranks are the 1-based contiguous positions in that order.
func (s *Aggregator) GetRanking() ([]Ranking, error) {
	entries, err := s.entries.ListLeaderboard()
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID < entries[j].UserID
	})

	rankings := make([]Ranking, len(entries))
	for i, entry := range entries {
		rankings[i] = Ranking{
			Rank:   i + 1,
			Name:   displayName(entry.FirstName, entry.LastName),
			Email:  entry.Email,
			Points: entry.TotalPoints,
		}
	}

	return rankings, nil
}

// EnsureEntry creates a zero-point leaderboard row for the user if one does
// not exist. The Identity Provider's registration workflow calls this as an
// explicit post-creation step.
func (s *Aggregator) EnsureEntry(userID int64) error {
	return s.entries.EnsureLeaderboardEntry(userID)
}

// UserSummary returns the user's display name and current total points. A
// user with no leaderboard row yet reports zero points.
func (s *Aggregator) UserSummary(userID int64) (*UserSummary, error) {
	entry, err := s.entries.GetLeaderboardEntry(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard entry: %w", err)
	}
	if entry != nil {
		return &UserSummary{
			Name:   displayName(entry.FirstName, entry.LastName),
			Points: entry.TotalPoints,
		}, nil
	}

	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("unknown user %d", userID)
	}

	return &UserSummary{
		Name:   displayName(user.FirstName, user.LastName),
		Points: 0,
	}, nil
}

func displayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
