package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgtype"
)

type attendanceRecordRepository struct {
	db *database.DB
}

func NewAttendanceRecordRepository(db *database.DB) attendance.AttendanceRecordRepository {
	return &attendanceRecordRepository{db: db}
}

// clockFromPG converts a nullable TIME column.
func clockFromPG(t pgtype.Time) *attendance.ClockTime {
	if !t.Valid {
		return nil
	}
	c := attendance.ClockTime(t.Microseconds / int64(time.Second/time.Microsecond))
	return &c
}

// ListByStudentAndRange implements attendance.AttendanceRecordRepository.
func (a *attendanceRecordRepository) ListByStudentAndRange(ctx context.Context, studentID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT student_id, date, in_time, out_time, od_flag, permission_flag, holiday_flag
		FROM attendance_records
		WHERE student_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, studentID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var (
			rec     attendance.AttendanceRecord
			date    time.Time
			inTime  pgtype.Time
			outTime pgtype.Time
		)
		err := rows.Scan(
			&rec.StudentID,
			&date,
			&inTime,
			&outTime,
			&rec.ODFlag,
			&rec.PermissionFlag,
			&rec.HolidayFlag,
		)
		if err != nil {
			return nil, err
		}
		rec.Date = attendance.NewDate(date)
		rec.InTime = clockFromPG(inTime)
		rec.OutTime = clockFromPG(outTime)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
