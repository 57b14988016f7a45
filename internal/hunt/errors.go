package hunt

import "errors"

// Domain errors returned by the hunt services. The HTTP layer maps these to
// status codes; anything else is treated as an internal failure.
var (
	ErrInvalidQRCode    = errors.New("invalid QR code")
	ErrMalformedToken   = errors.New("malformed access token")
	ErrInvalidToken     = errors.New("invalid access token")
	ErrTokenExpired     = errors.New("access token expired")
	ErrAlreadyCompleted = errors.New("location already completed")
	ErrNoChallenge      = errors.New("no challenge available for this location")
)
