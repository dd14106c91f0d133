package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

var testConfig = attendance.Config{
	LateCutoff:  attendance.MustClockTime("09:00"),
	EarlyCutoff: attendance.MustClockTime("16:00"),
}

func clock(s string) *attendance.ClockTime {
	if s == "" {
		return nil
	}
	c := attendance.MustClockTime(s)
	return &c
}

func flag(b bool) *bool {
	return &b
}

func record(date attendance.Date, in, out string) attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		Date:    date,
		InTime:  clock(in),
		OutTime: clock(out),
	}
}

func TestClassifyDay_LateArrivalIsStillPresent(t *testing.T) {
	t.Parallel()

	// Act
	day := ClassifyDay(record(attendance.DateOf(2024, time.March, 4), "09:15", "16:00"), testConfig)

	// Assert
	assert.Equal(t, attendance.DayStatusPresent, day.Status)
	assert.True(t, day.LateArrival)
	assert.False(t, day.EarlyDeparture)
	assert.Equal(t, 6.75, day.WorkingHours)
	assert.Equal(t, attendance.CategoryLate, day.Category())
}

func TestClassifyDay_Overrides(t *testing.T) {
	t.Parallel()
	date := attendance.DateOf(2024, time.March, 4)

	tests := []struct {
		name           string
		rec            attendance.AttendanceRecord
		wantStatus     attendance.DayStatus
		wantOD         bool
		wantPermission bool
		wantCategory   attendance.Category
	}{
		{
			name:         "holiday wins over punches and other flags",
			rec:          attendance.AttendanceRecord{Date: date, InTime: clock("10:00"), OutTime: clock("12:00"), HolidayFlag: flag(true), ODFlag: flag(true)},
			wantStatus:   attendance.DayStatusHoliday,
			wantCategory: attendance.CategoryHoliday,
		},
		{
			name:         "on duty without punches is not absent",
			rec:          attendance.AttendanceRecord{Date: date, ODFlag: flag(true)},
			wantStatus:   attendance.DayStatusUnmarked,
			wantOD:       true,
			wantCategory: attendance.CategoryOD,
		},
		{
			name:           "permission without punches is not absent",
			rec:            attendance.AttendanceRecord{Date: date, PermissionFlag: flag(true)},
			wantStatus:     attendance.DayStatusUnmarked,
			wantPermission: true,
			wantCategory:   attendance.CategoryPermission,
		},
		{
			name:         "on duty wins over permission",
			rec:          attendance.AttendanceRecord{Date: date, ODFlag: flag(true), PermissionFlag: flag(true)},
			wantStatus:   attendance.DayStatusUnmarked,
			wantOD:       true,
			wantCategory: attendance.CategoryOD,
		},
		{
			name:         "false flags are ignored",
			rec:          attendance.AttendanceRecord{Date: date, HolidayFlag: flag(false), ODFlag: flag(false)},
			wantStatus:   attendance.DayStatusAbsent,
			wantCategory: attendance.CategoryAbsent,
		},
		{
			name:         "no punches is absent",
			rec:          record(date, "", ""),
			wantStatus:   attendance.DayStatusAbsent,
			wantCategory: attendance.CategoryAbsent,
		},
		{
			name:         "check in only is present",
			rec:          record(date, "08:50", ""),
			wantStatus:   attendance.DayStatusPresent,
			wantCategory: attendance.CategoryPresent,
		},
		{
			name:         "check out only is present",
			rec:          record(date, "", "17:00"),
			wantStatus:   attendance.DayStatusPresent,
			wantCategory: attendance.CategoryPresent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			day := ClassifyDay(tt.rec, testConfig)

			// Assert
			assert.Equal(t, tt.wantStatus, day.Status)
			assert.Equal(t, tt.wantOD, day.ODStatus)
			assert.Equal(t, tt.wantPermission, day.PermissionStatus)
			assert.Equal(t, tt.wantCategory, day.Category())
			if tt.wantStatus != attendance.DayStatusPresent {
				assert.False(t, day.LateArrival)
				assert.False(t, day.EarlyDeparture)
			}
		})
	}
}

func TestClassifyDay_Cutoffs(t *testing.T) {
	t.Parallel()
	date := attendance.DateOf(2024, time.March, 4)

	tests := []struct {
		name      string
		in, out   string
		cfg       attendance.Config
		wantLate  bool
		wantEarly bool
	}{
		{name: "on the cutoff is on time", in: "09:00", out: "16:00", cfg: testConfig},
		{name: "one second late", in: "09:00:01", out: "16:00", cfg: testConfig, wantLate: true},
		{name: "leaves early", in: "08:30", out: "15:59", cfg: testConfig, wantEarly: true},
		{name: "late and early", in: "10:00", out: "14:00", cfg: testConfig, wantLate: true, wantEarly: true},
		{name: "midnight late cutoff flags any arrival", in: "00:01", out: "16:00", cfg: attendance.Config{EarlyCutoff: testConfig.EarlyCutoff}, wantLate: true},
		{name: "arrival at midnight is on time", in: "00:00", out: "16:00", cfg: attendance.Config{EarlyCutoff: testConfig.EarlyCutoff}},
		{name: "zero early cutoff never flags", in: "08:00", out: "08:30", cfg: attendance.Config{LateCutoff: testConfig.LateCutoff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := ClassifyDay(record(date, tt.in, tt.out), tt.cfg)

			assert.Equal(t, attendance.DayStatusPresent, day.Status)
			assert.Equal(t, tt.wantLate, day.LateArrival)
			assert.Equal(t, tt.wantEarly, day.EarlyDeparture)
		})
	}
}

func TestClassifyDay_WorkingHours(t *testing.T) {
	t.Parallel()
	date := attendance.DateOf(2024, time.March, 4)

	assert.Equal(t, 8.0, ClassifyDay(record(date, "08:00", "16:00"), testConfig).WorkingHours)
	assert.Equal(t, 7.33, ClassifyDay(record(date, "08:40", "16:00"), testConfig).WorkingHours)
	assert.Equal(t, 0.0, ClassifyDay(record(date, "08:00", ""), testConfig).WorkingHours)
	assert.Equal(t, 0.0, ClassifyDay(record(date, "16:00", "08:00"), testConfig).WorkingHours)
}

func TestClassifyDay_PresentImpliesPunch(t *testing.T) {
	t.Parallel()
	date := attendance.DateOf(2024, time.March, 4)
	punches := []string{"", "07:00", "09:30", "17:00"}
	flags := []*bool{nil, flag(false), flag(true)}

	for _, in := range punches {
		for _, out := range punches {
			for _, od := range flags {
				for _, perm := range flags {
					for _, hol := range flags {
						rec := record(date, in, out)
						rec.ODFlag, rec.PermissionFlag, rec.HolidayFlag = od, perm, hol

						day := ClassifyDay(rec, testConfig)

						if day.Status == attendance.DayStatusPresent {
							assert.True(t, rec.InTime != nil || rec.OutTime != nil)
						}
						if day.LateArrival || day.EarlyDeparture {
							assert.Equal(t, attendance.DayStatusPresent, day.Status)
						}
					}
				}
			}
		}
	}
}
