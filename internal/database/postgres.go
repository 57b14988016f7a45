package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/JosueZ99/treasure-hunt-app/internal/config"
	_ "github.com/lib/pq"
)

type DB struct {
	conn *sql.DB
	cfg  *config.Config
}

func NewDB(cfg *config.Config) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}

	if err := db.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			first_name VARCHAR(100) NOT NULL DEFAULT '',
			last_name VARCHAR(100) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS locations (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			qr_code VARCHAR(255) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS challenges (
			id BIGSERIAL PRIMARY KEY,
			location_id BIGINT NOT NULL REFERENCES locations(id),
			question TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			points INTEGER NOT NULL CHECK (points > 0),
			options TEXT[]
		)`,
		`CREATE TABLE IF NOT EXISTS hints (
			id BIGSERIAL PRIMARY KEY,
			location_id BIGINT NOT NULL REFERENCES locations(id),
			hint_order INTEGER NOT NULL CHECK (hint_order > 0),
			text TEXT NOT NULL,
			UNIQUE (location_id, hint_order)
		)`,
		`CREATE TABLE IF NOT EXISTS access_tokens (
			token UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			location_id BIGINT NOT NULL REFERENCES locations(id),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_progress (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			location_id BIGINT NOT NULL REFERENCES locations(id),
			current_hint INTEGER NOT NULL DEFAULT 1 CHECK (current_hint > 0),
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMP WITH TIME ZONE,
			points_earned INTEGER NOT NULL DEFAULT 0 CHECK (points_earned >= 0),
			last_scanned_qr BIGINT,
			UNIQUE (user_id, location_id)
		)`,
		`CREATE TABLE IF NOT EXISTS leaderboard (
			user_id BIGINT PRIMARY KEY REFERENCES users(id),
			total_points INTEGER NOT NULL DEFAULT 0 CHECK (total_points >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS participation_history (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			location_id BIGINT NOT NULL REFERENCES locations(id),
			action VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_access_tokens_expires_at ON access_tokens(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_access_tokens_user_location ON access_tokens(user_id, location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hints_location_order ON hints(location_id, hint_order)`,
		`CREATE INDEX IF NOT EXISTS idx_participation_user ON participation_history(user_id)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %s, error: %w", query, err)
		}
	}

	return nil
}

func (db *DB) GetLocationByQRCode(qrCode string) (*Location, error) {
	query := `SELECT id, name, qr_code, description, created_at
			  FROM locations WHERE qr_code = $1`

	location := &Location{}
	err := db.conn.QueryRow(query, qrCode).Scan(
		&location.ID, &location.Name, &location.QRCode,
		&location.Description, &location.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return location, err
}

func (db *DB) GetChallengeByLocation(locationID int64) (*Challenge, error) {
	query := `SELECT id, location_id, question, correct_answer, points, options
			  FROM challenges WHERE location_id = $1 ORDER BY id LIMIT 1`

	challenge := &Challenge{}
	err := db.conn.QueryRow(query, locationID).Scan(
		&challenge.ID, &challenge.LocationID, &challenge.Question,
		&challenge.CorrectAnswer, &challenge.Points, &challenge.Options,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return challenge, err
}

func (db *DB) GetHint(locationID int64, order int) (*Hint, error) {
	query := `SELECT id, location_id, hint_order, text
			  FROM hints WHERE location_id = $1 AND hint_order = $2`

	hint := &Hint{}
	err := db.conn.QueryRow(query, locationID, order).Scan(
		&hint.ID, &hint.LocationID, &hint.Order, &hint.Text,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return hint, err
}

func (db *DB) CreateAccessToken(token *AccessToken) error {
	query := `INSERT INTO access_tokens (token, user_id, location_id, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := db.conn.Exec(query, token.Token, token.UserID, token.LocationID,
		token.CreatedAt, token.ExpiresAt)

	return err
}

func (db *DB) GetAccessToken(token string) (*AccessToken, error) {
	query := `SELECT token, user_id, location_id, created_at, expires_at
			  FROM access_tokens WHERE token = $1`

	at := &AccessToken{}
	err := db.conn.QueryRow(query, token).Scan(
		&at.Token, &at.UserID, &at.LocationID, &at.CreatedAt, &at.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return at, err
}

func (db *DB) GetProgress(userID, locationID int64) (*UserProgress, error) {
	query := `SELECT id, user_id, location_id, current_hint, completed, completed_at, points_earned, last_scanned_qr
			  FROM user_progress WHERE user_id = $1 AND location_id = $2`

	progress := &UserProgress{}
	err := db.conn.QueryRow(query, userID, locationID).Scan(
		&progress.ID, &progress.UserID, &progress.LocationID,
		&progress.CurrentHint, &progress.Completed, &progress.CompletedAt,
		&progress.PointsEarned, &progress.LastScannedQR,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return progress, err
}

// GetOrCreateProgress returns the progress row for (user, location), creating
// it when absent. The bool reports whether a new row was created. Concurrent
// creates for the same pair are resolved by the unique constraint.
func (db *DB) GetOrCreateProgress(userID, locationID int64) (*UserProgress, bool, error) {
	insert := `INSERT INTO user_progress (user_id, location_id)
			   VALUES ($1, $2)
			   ON CONFLICT (user_id, location_id) DO NOTHING`

	res, err := db.conn.Exec(insert, userID, locationID)
	if err != nil {
		return nil, false, err
	}

	created := false
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		created = true
	}

	progress, err := db.GetProgress(userID, locationID)
	if err != nil {
		return nil, false, err
	}
	if progress == nil {
		return nil, false, fmt.Errorf("progress row missing after upsert for user %d location %d", userID, locationID)
	}

	return progress, created, nil
}

func (db *DB) SetLastScannedQR(userID, locationID, scannedLocationID int64) error {
	query := `UPDATE user_progress SET last_scanned_qr = $3
			  WHERE user_id = $1 AND location_id = $2`

	_, err := db.conn.Exec(query, userID, locationID, scannedLocationID)
	return err
}

// AdvanceHintCursor moves current_hint from `from` to `from+1` with an
// optimistic compare-and-swap. It reports false when another request advanced
// the cursor first.
func (db *DB) AdvanceHintCursor(userID, locationID int64, from int) (bool, error) {
	query := `UPDATE user_progress SET current_hint = $4
			  WHERE user_id = $1 AND location_id = $2 AND current_hint = $3`

	res, err := db.conn.Exec(query, userID, locationID, from, from+1)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// CommitCompletion applies the completion writes as one transaction: mark the
// progress row complete, add the challenge points to the leaderboard, and
// append a participation entry. The conditional UPDATE on completed = FALSE
// serializes racing commits; the loser sees zero rows affected and the whole
// transaction rolls back. Reports false when the row was already completed.
func (db *DB) CommitCompletion(userID, locationID int64, points int, action string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE user_progress
						 SET completed = TRUE, completed_at = NOW(), points_earned = points_earned + $3
						 WHERE user_id = $1 AND location_id = $2 AND completed = FALSE`,
		userID, locationID, points)
	if err != nil {
		return false, fmt.Errorf("failed to update progress: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	_, err = tx.Exec(`INSERT INTO leaderboard (user_id, total_points)
					  VALUES ($1, $2)
					  ON CONFLICT (user_id) DO UPDATE SET total_points = leaderboard.total_points + $2`,
		userID, points)
	if err != nil {
		return false, fmt.Errorf("failed to update leaderboard: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO participation_history (user_id, location_id, action)
					  VALUES ($1, $2, $3)`,
		userID, locationID, action)
	if err != nil {
		return false, fmt.Errorf("failed to record participation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit completion: %w", err)
	}

	return true, nil
}

func (db *DB) EnsureLeaderboardEntry(userID int64) error {
	query := `INSERT INTO leaderboard (user_id, total_points)
			  VALUES ($1, 0)
			  ON CONFLICT (user_id) DO NOTHING`

	_, err := db.conn.Exec(query, userID)
	return err
}

func (db *DB) ListLeaderboard() ([]LeaderboardEntry, error) {
	query := `SELECT l.user_id, u.email, u.first_name, u.last_name, l.total_points
			  FROM leaderboard l
			  JOIN users u ON u.id = l.user_id`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Email, &entry.FirstName,
			&entry.LastName, &entry.TotalPoints); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (db *DB) GetLeaderboardEntry(userID int64) (*LeaderboardEntry, error) {
	query := `SELECT l.user_id, u.email, u.first_name, u.last_name, l.total_points
			  FROM leaderboard l
			  JOIN users u ON u.id = l.user_id
			  WHERE l.user_id = $1`

	entry := &LeaderboardEntry{}
	err := db.conn.QueryRow(query, userID).Scan(
		&entry.UserID, &entry.Email, &entry.FirstName,
		&entry.LastName, &entry.TotalPoints,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return entry, err
}

func (db *DB) GetUser(userID int64) (*User, error) {
	query := `SELECT id, email, first_name, last_name FROM users WHERE id = $1`

	user := &User{}
	err := db.conn.QueryRow(query, userID).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (db *DB) RecordParticipation(userID, locationID int64, action string) error {
	query := `INSERT INTO participation_history (user_id, location_id, action)
			  VALUES ($1, $2, $3)`

	_, err := db.conn.Exec(query, userID, locationID, action)
	return err
}

// CleanupExpiredTokens removes access tokens whose expiry is at least
// olderThan in the past. Validity is still checked at read time; this only
// trims rows that can never be accepted again.
func (db *DB) CleanupExpiredTokens(olderThan time.Duration) error {
	query := `DELETE FROM access_tokens WHERE expires_at < $1`
	cutoff := time.Now().Add(-olderThan)
	_, err := db.conn.Exec(query, cutoff)
	return err
}
