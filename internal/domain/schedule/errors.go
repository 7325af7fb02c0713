package schedule

import "errors"

var (
	ErrInvalidTime      = errors.New("invalid HH:mm time value")
	ErrInvalidDayOfWeek = errors.New("day of week must be between 0 (Monday) and 6 (Sunday)")
)
