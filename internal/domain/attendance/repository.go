package attendance

import (
	"context"
	"time"
)

// AttendanceRecordRepository reads raw attendance owned by the attendance
// capture subsystem.
type AttendanceRecordRepository interface {
	// ListByStudentAndRange returns the student's records with a date in
	// [start, end], ordered by date.
	ListByStudentAndRange(ctx context.Context, studentID string, start, end time.Time) ([]AttendanceRecord, error)
}
