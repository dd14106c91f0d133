package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidRange       = errors.New("invalid date range: start must not be after end")
	ErrUnknownGranularity = errors.New("granularity must be one of: daily, weekly, monthly")
	ErrRecordsRequired    = errors.New("records are required")
	ErrInvalidCutoff      = errors.New("invalid attendance cutoff")
	ErrStudentIDRequired  = errors.New("student ID is required")
)

// MaxRangeDays bounds the window a request may ask for. Aggregate itself
// accepts any range.
const MaxRangeDays = 3660
