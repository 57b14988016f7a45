// Package hunttest provides an in-memory store implementing every hunt store
// interface, for tests that exercise the core without Postgres. All methods
// serialize on one mutex, matching the row-level serialization the real
// persistence layer guarantees.
package hunttest

import (
	"errors"
	"sync"
	"time"

	"github.com/JosueZ99/treasure-hunt-app/internal/database"
	"github.com/lib/pq"
)

type progressKey struct {
	userID     int64
	locationID int64
}

type Store struct {
	mu          sync.Mutex
	locations   map[string]*database.Location
	challenges  map[int64]*database.Challenge
	hints       map[int64]map[int]*database.Hint
	tokens      map[string]*database.AccessToken
	progress    map[progressKey]*database.UserProgress
	leaderboard map[int64]int
	users       map[int64]*database.User
	events      []database.ParticipationEvent

	// FailParticipation makes RecordParticipation return an error, for
	// fire-and-forget tests.
	FailParticipation bool

	nextID int64
}

func NewStore() *Store {
	return &Store{
		locations:   make(map[string]*database.Location),
		challenges:  make(map[int64]*database.Challenge),
		hints:       make(map[int64]map[int]*database.Hint),
		tokens:      make(map[string]*database.AccessToken),
		progress:    make(map[progressKey]*database.UserProgress),
		leaderboard: make(map[int64]int),
		users:       make(map[int64]*database.User),
	}
}

// Fixture helpers.

func (s *Store) AddUser(id int64, email, firstName, lastName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &database.User{ID: id, Email: email, FirstName: firstName, LastName: lastName}
}

func (s *Store) AddLocation(id int64, name, qrCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[qrCode] = &database.Location{
		ID:        id,
		Name:      name,
		QRCode:    qrCode,
		CreatedAt: time.Now(),
	}
}

func (s *Store) AddChallenge(locationID int64, question, answer string, points int, options ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.challenges[locationID] = &database.Challenge{
		ID:            s.nextID,
		LocationID:    locationID,
		Question:      question,
		CorrectAnswer: answer,
		Points:        points,
		Options:       pq.StringArray(options),
	}
}

func (s *Store) AddHints(locationID int64, texts ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hints[locationID] == nil {
		s.hints[locationID] = make(map[int]*database.Hint)
	}
	for i, text := range texts {
		s.nextID++
		s.hints[locationID][i+1] = &database.Hint{
			ID:         s.nextID,
			LocationID: locationID,
			Order:      i + 1,
			Text:       text,
		}
	}
}

func (s *Store) AddToken(token *database.AccessToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *token
	s.tokens[token.Token] = &copied
}

func (s *Store) SetPoints(userID int64, points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaderboard[userID] = points
}

// State accessors for assertions.

func (s *Store) TokenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *Store) Points(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboard[userID]
}

func (s *Store) Progress(userID, locationID int64) *database.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[progressKey{userID, locationID}]
	if !ok {
		return nil
	}
	copied := *p
	return &copied
}

func (s *Store) Events() []database.ParticipationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]database.ParticipationEvent, len(s.events))
	copy(events, s.events)
	return events
}

// hunt.LocationStore

func (s *Store) GetLocationByQRCode(qrCode string) (*database.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	location, ok := s.locations[qrCode]
	if !ok {
		return nil, nil
	}
	copied := *location
	return &copied, nil
}

// hunt.ChallengeStore

func (s *Store) GetChallengeByLocation(locationID int64) (*database.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenge, ok := s.challenges[locationID]
	if !ok {
		return nil, nil
	}
	copied := *challenge
	return &copied, nil
}

// hunt.HintStore

func (s *Store) GetHint(locationID int64, order int) (*database.Hint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hint, ok := s.hints[locationID][order]
	if !ok {
		return nil, nil
	}
	copied := *hint
	return &copied, nil
}

// hunt.TokenStore

func (s *Store) CreateAccessToken(token *database.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *token
	s.tokens[token.Token] = &copied
	return nil
}

func (s *Store) GetAccessToken(token string) (*database.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.tokens[token]
	if !ok {
		return nil, nil
	}
	copied := *at
	return &copied, nil
}

// hunt.ProgressStore

func (s *Store) GetProgress(userID, locationID int64) (*database.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[progressKey{userID, locationID}]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *Store) GetOrCreateProgress(userID, locationID int64) (*database.UserProgress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey{userID, locationID}
	if p, ok := s.progress[key]; ok {
		copied := *p
		return &copied, false, nil
	}
	s.nextID++
	p := &database.UserProgress{
		ID:          s.nextID,
		UserID:      userID,
		LocationID:  locationID,
		CurrentHint: 1,
	}
	s.progress[key] = p
	copied := *p
	return &copied, true, nil
}

func (s *Store) SetLastScannedQR(userID, locationID, scannedLocationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.progress[progressKey{userID, locationID}]; ok {
		p.LastScannedQR = &scannedLocationID
	}
	return nil
}

func (s *Store) AdvanceHintCursor(userID, locationID int64, from int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[progressKey{userID, locationID}]
	if !ok || p.CurrentHint != from {
		return false, nil
	}
	p.CurrentHint = from + 1
	return true, nil
}

// hunt.CompletionStore

func (s *Store) CommitCompletion(userID, locationID int64, points int, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[progressKey{userID, locationID}]
	if !ok || p.Completed {
		return false, nil
	}
	now := time.Now()
	p.Completed = true
	p.CompletedAt = &now
	p.PointsEarned += points
	s.leaderboard[userID] += points
	s.nextID++
	s.events = append(s.events, database.ParticipationEvent{
		ID:         s.nextID,
		UserID:     userID,
		LocationID: locationID,
		Action:     action,
		CreatedAt:  now,
	})
	return true, nil
}

// hunt.LeaderboardStore

func (s *Store) EnsureLeaderboardEntry(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leaderboard[userID]; !ok {
		s.leaderboard[userID] = 0
	}
	return nil
}

func (s *Store) ListLeaderboard() ([]database.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []database.LeaderboardEntry
	for userID, points := range s.leaderboard {
		user, ok := s.users[userID]
		if !ok {
			continue
		}
		entries = append(entries, database.LeaderboardEntry{
			UserID:      userID,
			Email:       user.Email,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			TotalPoints: points,
		})
	}
	return entries, nil
}

func (s *Store) GetLeaderboardEntry(userID int64) (*database.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points, ok := s.leaderboard[userID]
	if !ok {
		return nil, nil
	}
	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &database.LeaderboardEntry{
		UserID:      userID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		TotalPoints: points,
	}, nil
}

// hunt.ParticipationStore

func (s *Store) RecordParticipation(userID, locationID int64, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailParticipation {
		return errors.New("participation store unavailable")
	}
	s.nextID++
	s.events = append(s.events, database.ParticipationEvent{
		ID:         s.nextID,
		UserID:     userID,
		LocationID: locationID,
		Action:     action,
		CreatedAt:  time.Now(),
	})
	return nil
}

// hunt.UserStore

func (s *Store) GetUser(userID int64) (*database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}
