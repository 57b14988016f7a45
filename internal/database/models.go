package database

import (
	"time"

	"github.com/lib/pq"
)

// User is the read-only view of an Identity Provider record. Creation and
// credential management happen outside this service.
type User struct {
	ID        int64  `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
}

type Location struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	QRCode      string    `db:"qr_code" json:"qrCode"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Challenge struct {
	ID            int64          `db:"id" json:"id"`
	LocationID    int64          `db:"location_id" json:"locationId"`
	Question      string         `db:"question" json:"question"`
	CorrectAnswer string         `db:"correct_answer" json:"-"`
	Points        int            `db:"points" json:"points"`
	Options       pq.StringArray `db:"options" json:"options,omitempty"`
}

type Hint struct {
	ID         int64  `db:"id" json:"id"`
	LocationID int64  `db:"location_id" json:"locationId"`
	Order      int    `db:"hint_order" json:"order"`
	Text       string `db:"text" json:"text"`
}

type AccessToken struct {
	Token      string    `db:"token" json:"token"`
	UserID     int64     `db:"user_id" json:"userId"`
	LocationID int64     `db:"location_id" json:"locationId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt  time.Time `db:"expires_at" json:"expiresAt"`
}

// IsValid reports whether the token is still within its TTL. Expiry is a
// read-time check; stale rows may linger in storage but are never accepted.
func (t *AccessToken) IsValid() bool {
	return time.Now().Before(t.ExpiresAt)
}

type UserProgress struct {
	ID            int64      `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"userId"`
	LocationID    int64      `db:"location_id" json:"locationId"`
	CurrentHint   int        `db:"current_hint" json:"currentHint"`
	Completed     bool       `db:"completed" json:"completed"`
	CompletedAt   *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	PointsEarned  int        `db:"points_earned" json:"pointsEarned"`
	LastScannedQR *int64     `db:"last_scanned_qr" json:"lastScannedQr,omitempty"`
}

type LeaderboardEntry struct {
	UserID      int64  `db:"user_id" json:"userId"`
	Email       string `db:"email" json:"email"`
	FirstName   string `db:"first_name" json:"firstName"`
	LastName    string `db:"last_name" json:"lastName"`
	TotalPoints int    `db:"total_points" json:"totalPoints"`
}

type ParticipationEvent struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"userId"`
	LocationID int64     `db:"location_id" json:"locationId"`
	Action     string    `db:"action" json:"action"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
