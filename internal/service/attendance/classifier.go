package attendance

import (
	"math"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
)

// ClassifyDay turns one raw record into its daily classification. Overrides
// are checked in order holiday, on-duty, permission; only a day with no
// override goes through the presence check. Both cutoffs are plain
// comparisons; 00:00 is a valid cutoff like any other.
func ClassifyDay(rec attendance.AttendanceRecord, cfg attendance.Config) attendance.DailyClassification {
	day := attendance.DailyClassification{
		Date:         rec.Date,
		WorkingHours: workingHours(rec.InTime, rec.OutTime),
	}

	switch {
	case rec.IsHoliday():
		day.Status = attendance.DayStatusHoliday
	case rec.IsOnDuty():
		day.ODStatus = true
	case rec.HasPermission():
		day.PermissionStatus = true
	case rec.InTime == nil && rec.OutTime == nil:
		day.Status = attendance.DayStatusAbsent
	default:
		day.Status = attendance.DayStatusPresent
		if rec.InTime != nil && *rec.InTime > cfg.LateCutoff {
			day.LateArrival = true
		}
		if rec.OutTime != nil && *rec.OutTime < cfg.EarlyCutoff {
			day.EarlyDeparture = true
		}
	}

	return day
}

// workingHours is the in-to-out span in hours. A missing punch or an out
// time before the in time yields 0.
func workingHours(in, out *attendance.ClockTime) float64 {
	if in == nil || out == nil || *out < *in {
		return 0
	}
	return round2(float64(*out-*in) / 3600)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
