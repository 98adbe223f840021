package entities

import "errors"

// Domain errors
var (
	ErrInvalidProvider = errors.New("unsupported provider")
	ErrEmptyToken      = errors.New("empty access token")
	ErrStaleTranscript = errors.New("transcript was replaced since it was loaded")
)
