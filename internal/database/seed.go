package database

import (
	"github.com/lib/pq"
)

// Catalog writes used by cmd/seed. Locations are immutable once created, so
// these are plain inserts; duplicate names or QR codes fail on the unique
// constraints.

func (db *DB) CreateLocation(name, qrCode, description string) (int64, error) {
	query := `INSERT INTO locations (name, qr_code, description)
			  VALUES ($1, $2, $3) RETURNING id`

	var id int64
	err := db.conn.QueryRow(query, name, qrCode, description).Scan(&id)
	return id, err
}

func (db *DB) CreateChallenge(locationID int64, question, correctAnswer string, points int, options []string) error {
	query := `INSERT INTO challenges (location_id, question, correct_answer, points, options)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := db.conn.Exec(query, locationID, question, correctAnswer, points, pq.Array(options))
	return err
}

func (db *DB) CreateHint(locationID int64, order int, text string) error {
	query := `INSERT INTO hints (location_id, hint_order, text)
			  VALUES ($1, $2, $3)`

	_, err := db.conn.Exec(query, locationID, order, text)
	return err
}
