// Package hunt implements the QR-token-gated progress state machine: token
// issuance, challenge validation, hint dispensing, leaderboard ranking and
// the participation log.
package hunt

import (
	"fmt"
	"time"

	"github.com/JosueZ99/treasure-hunt-app/internal/config"
	"github.com/JosueZ99/treasure-hunt-app/internal/database"
	"github.com/google/uuid"
)

// Issuer mints short-lived access tokens after a QR scan.
type Issuer struct {
	cfg       *config.Config
	locations LocationStore
	tokens    TokenStore
	progress  ProgressStore
}

func NewIssuer(cfg *config.Config, locations LocationStore, tokens TokenStore, progress ProgressStore) *Issuer {
	return &Issuer{
		cfg:       cfg,
		locations: locations,
		tokens:    tokens,
		progress:  progress,
	}
}

type IssuedToken struct {
	Token        string
	LocationID   int64
	LocationName string
}

// IssueToken resolves the scanned QR code and mints a new access token bound
// to (user, location). A completed location refuses the scan before any token
// is created. Every scan mints a fresh token; tokens are never renewed.
func (s *Issuer) IssueToken(userID int64, qrCode string) (*IssuedToken, error) {
	location, err := s.locations.GetLocationByQRCode(qrCode)
	if err != nil {
		return nil, fmt.Errorf("failed to look up location: %w", err)
	}
	if location == nil {
		return nil, ErrInvalidQRCode
	}

	progress, _, err := s.progress.GetOrCreateProgress(userID, location.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress.Completed {
		return nil, ErrAlreadyCompleted
	}

	now := time.Now()
	token := &database.AccessToken{
		Token:      uuid.NewString(),
		UserID:     userID,
		LocationID: location.ID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(s.cfg.TokenTTLMinutes) * time.Minute),
	}

	if err := s.tokens.CreateAccessToken(token); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}

	if err := s.progress.SetLastScannedQR(userID, location.ID, location.ID); err != nil {
		return nil, fmt.Errorf("failed to update last scanned QR: %w", err)
	}

	return &IssuedToken{
		Token:        token.Token,
		LocationID:   location.ID,
		LocationName: location.Name,
	}, nil
}

// resolveToken validates the token string format, existence and TTL. Shared
// by every token-gated operation.
func resolveToken(tokens TokenStore, token string) (*database.AccessToken, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrMalformedToken
	}

	at, err := tokens.GetAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up access token: %w", err)
	}
	if at == nil {
		return nil, ErrInvalidToken
	}
	if !at.IsValid() {
		return nil, ErrTokenExpired
	}

	return at, nil
}
