package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyRoster     = errors.New("roster is empty")
	ErrEmptyName       = errors.New("roster entry without a name")
	ErrDuplicateName   = errors.New("duplicate roster name")
	ErrUnknownRole     = errors.New("unknown role")
	ErrInvalidType     = errors.New("invalid frame type")
	ErrEmptyPath       = errors.New("path is required")
	ErrEmptyValue      = errors.New("value is required")
	ErrInvalidPathForm = errors.New("path has an empty segment")
)
