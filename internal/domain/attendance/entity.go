package attendance

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day at UTC midnight. It marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf builds a Date from its parts.
func DateOf(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.Time.AddDate(0, 0, n))
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	*d = parsed
	return nil
}

// ClockTime is a wall-clock time of day in seconds since midnight.
type ClockTime int

func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q: want HH:MM or HH:MM:SS", s)
}

// MustClockTime panics on malformed input. Meant for constants and tests.
func MustClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	h, m, s := int(c)/3600, int(c)%3600/60, int(c)%60
	if s != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// AttendanceRecord is one raw day of attendance for a student.
type AttendanceRecord struct {
	StudentID      string     `json:"-"`
	Date           Date       `json:"date"`
	InTime         *ClockTime `json:"inTime,omitempty"`
	OutTime        *ClockTime `json:"outTime,omitempty"`
	ODFlag         *bool      `json:"odFlag,omitempty"`
	PermissionFlag *bool      `json:"permissionFlag,omitempty"`
	HolidayFlag    *bool      `json:"holidayFlag,omitempty"`
}

func isSet(b *bool) bool {
	return b != nil && *b
}

func (r AttendanceRecord) IsHoliday() bool {
	return isSet(r.HolidayFlag)
}

func (r AttendanceRecord) IsOnDuty() bool {
	return isSet(r.ODFlag)
}

func (r AttendanceRecord) HasPermission() bool {
	return isSet(r.PermissionFlag)
}

// Config holds the lateness cutoffs the classifier compares against.
type Config struct {
	LateCutoff  ClockTime `json:"lateCutoff"`
	EarlyCutoff ClockTime `json:"earlyCutoff"`
}

// DayStatus is the presence verdict of one day. On-duty and permission days
// skip the presence check and carry an empty status.
type DayStatus string

const (
	DayStatusPresent  DayStatus = "Present"
	DayStatusAbsent   DayStatus = "Absent"
	DayStatusHoliday  DayStatus = "Holiday"
	DayStatusUnmarked DayStatus = ""
)

// Category is the single bucket a day falls into for share distributions.
type Category string

const (
	CategoryPresent    Category = "present"
	CategoryAbsent     Category = "absent"
	CategoryLate       Category = "late"
	CategoryOD         Category = "od"
	CategoryPermission Category = "permission"
	CategoryHoliday    Category = "holiday"
)

type DailyClassification struct {
	Date             Date      `json:"date"`
	Status           DayStatus `json:"status,omitempty"`
	ODStatus         bool      `json:"odStatus"`
	PermissionStatus bool      `json:"permissionStatus"`
	LateArrival      bool      `json:"lateArrival"`
	EarlyDeparture   bool      `json:"earlyDeparture"`
	WorkingHours     float64   `json:"workingHours"`
}

// Category maps the day onto exactly one distribution bucket. A present day
// with a late arrival counts as late, not present.
func (d DailyClassification) Category() Category {
	switch {
	case d.Status == DayStatusHoliday:
		return CategoryHoliday
	case d.ODStatus:
		return CategoryOD
	case d.PermissionStatus:
		return CategoryPermission
	case d.Status == DayStatusAbsent:
		return CategoryAbsent
	case d.LateArrival:
		return CategoryLate
	default:
		return CategoryPresent
	}
}

// Granularity is the aggregation window.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}
	return false
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start.Time) && !d.After(r.End.Time)
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start.Time).Hours()/24) + 1
}

// CategoryShares holds integer percentages per category. Weekly and monthly
// shares always sum to 100, or are all zero for an empty period.
type CategoryShares struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
	OD         int `json:"od"`
	Permission int `json:"permission"`
	Holiday    int `json:"holiday"`
}

func (s CategoryShares) Sum() int {
	return s.Present + s.Absent + s.Late + s.OD + s.Permission + s.Holiday
}

type PeriodStatistics struct {
	Label string `json:"label"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`

	PresentDays        int `json:"presentDays"`
	AbsentDays         int `json:"absentDays"`
	LateArrivalDays    int `json:"lateArrivalDays"`
	EarlyDepartureDays int `json:"earlyDepartureDays"`
	ODDays             int `json:"odDays"`
	PermissionDays     int `json:"permissionDays"`
	HolidayDays        int `json:"holidayDays"`
	WorkingDays        int `json:"workingDays"`
	TotalDays          int `json:"totalDays"`

	WorkingHours float64         `json:"workingHours"`
	Percentage   float64         `json:"percentage"`
	Distribution *CategoryShares `json:"distribution,omitempty"`
}

// CategoryCounts returns the mutually exclusive bucket counts in canonical
// order. Late arrivals are only ever flagged on present days, so the
// on-time present bucket is PresentDays minus LateArrivalDays.
func (p PeriodStatistics) CategoryCounts() [6]int {
	return [6]int{
		p.PresentDays - p.LateArrivalDays,
		p.AbsentDays,
		p.LateArrivalDays,
		p.ODDays,
		p.PermissionDays,
		p.HolidayDays,
	}
}

type AggregateResult struct {
	Granularity Granularity           `json:"granularity"`
	Range       DateRange             `json:"range"`
	Summary     PeriodStatistics      `json:"summary"`
	Periods     []PeriodStatistics    `json:"periods,omitempty"`
	Days        []DailyClassification `json:"days,omitempty"`
}
