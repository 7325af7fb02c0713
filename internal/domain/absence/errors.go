package absence

import "errors"

var (
	ErrAbsenceNotFound = errors.New("absence not found")
	ErrInvalidState    = errors.New("absence is not in a state that allows this transition")
	ErrInvalidRange    = errors.New("end date must be on or after start date")
)
