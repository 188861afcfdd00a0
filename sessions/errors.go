package sessions

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField   = errors.New("name and participant ID are both required")
	ErrRosterMismatch = errors.New("participant ID is not in the roster")
	ErrInvalidSession = errors.New("invalid QR code or session, scan a valid QR code")
	ErrInvalidInput   = errors.New("invalid input")
	ErrParse          = errors.New("could not parse roster file")
)

// OutOfRangeError is returned when a check-in comes from outside the fence.
type OutOfRangeError struct {
	DistanceKM float64
	RadiusKM   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("location is too far: %.2f km away (limit %.2f km)", e.DistanceKM, e.RadiusKM)
}
