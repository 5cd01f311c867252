package hub

import "errors"

var (
	// ErrUnknownUser is returned for a name that is not on the roster.
	ErrUnknownUser = errors.New("unknown user")

	// ErrForbidden is returned for a write the member may not make: only
	// hosts may write, and only below "data/".
	ErrForbidden = errors.New("write forbidden")

	// ErrInvalidLesson is returned when a lesson file cannot be hosted.
	ErrInvalidLesson = errors.New("invalid lesson")
)
