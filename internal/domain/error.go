package domain

import "errors"

var (
	// ErrMalformedStatus indicates status output without a usable sink section.
	ErrMalformedStatus = errors.New("malformed wpctl status output")

	// ErrMalformedVolume indicates get-volume output without a volume fraction.
	ErrMalformedVolume = errors.New("malformed wpctl get-volume output")

	// ErrUnknownCommand indicates a widget command name that is not exposed.
	ErrUnknownCommand = errors.New("unknown widget command")

	// ErrUnknownButton indicates a pointer button outside 1-5.
	ErrUnknownButton = errors.New("unknown pointer button")

	// ErrInvalidSettings indicates settings that failed validation.
	ErrInvalidSettings = errors.New("invalid settings")
)
