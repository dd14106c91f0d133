package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidUUID accepts UUIDv7 only, which is what the database generates.
func IsValidUUID(s string) bool {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return id.Version() == 7 && id.Variant() == uuid.RFC4122
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var clockTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// IsValidClockTime checks a wall-clock time in HH:MM or HH:MM:SS format.
func IsValidClockTime(s string) bool {
	return clockTimeRegex.MatchString(strings.TrimSpace(s))
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsValidDateRange checks that both dates parse and start is not after end.
func IsValidDateRange(start, end string) (time.Time, time.Time, bool) {
	s, ok := IsValidDate(start)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	e, ok := IsValidDate(end)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return s, e, !s.After(e)
}
