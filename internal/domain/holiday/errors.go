package holiday

import "errors"

var (
	ErrRegionNotConfigured = errors.New("company has no region configured")
	ErrHolidayNotFound     = errors.New("holiday not found")
)
