package presenceerr

import "errors"

var (
	ErrNoSubject        = errors.New("subject id is required")
	ErrInvalidSocketURL = errors.New("invalid socket url")
	ErrLookupFailed     = errors.New("presence lookup failed")
	ErrUnexpectedStatus = errors.New("unexpected http status")
)
