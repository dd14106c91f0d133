package attendance

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/validator"
)

// ========================================
// CLASSIFICATION DTOs
// ========================================

// ConfigInput overrides the server's configured cutoffs for one call.
type ConfigInput struct {
	LateCutoff  *string `json:"lateCutoff,omitempty"`  // HH:MM
	EarlyCutoff *string `json:"earlyCutoff,omitempty"` // HH:MM
}

func (c *ConfigInput) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if c == nil {
		return errs
	}
	if c.LateCutoff != nil && !validator.IsValidClockTime(*c.LateCutoff) {
		errs = append(errs, validator.ValidationError{
			Field:   "config.lateCutoff",
			Message: "lateCutoff must be in HH:MM format",
		})
	}
	if c.EarlyCutoff != nil && !validator.IsValidClockTime(*c.EarlyCutoff) {
		errs = append(errs, validator.ValidationError{
			Field:   "config.earlyCutoff",
			Message: "earlyCutoff must be in HH:MM format",
		})
	}
	return errs
}

// Apply returns base with any provided cutoffs replaced. Call after Validate.
func (c *ConfigInput) Apply(base Config) Config {
	if c == nil {
		return base
	}
	if c.LateCutoff != nil {
		if t, err := ParseClockTime(*c.LateCutoff); err == nil {
			base.LateCutoff = t
		}
	}
	if c.EarlyCutoff != nil {
		if t, err := ParseClockTime(*c.EarlyCutoff); err == nil {
			base.EarlyCutoff = t
		}
	}
	return base
}

type ClassifyDayRequest struct {
	Record *AttendanceRecord `json:"record"`
	Config *ConfigInput      `json:"config,omitempty"`
}

func (r *ClassifyDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Record == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "record",
			Message: "record is required",
		})
	} else if r.Record.Date.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "record.date",
			Message: "date is required",
		})
	}

	errs = r.Config.validate(errs)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// AGGREGATION DTOs
// ========================================

type RangeInput struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD
}

func (r RangeInput) validate(errs validator.ValidationErrors, field string) (DateRange, validator.ValidationErrors) {
	start, end, ok := validator.IsValidDateRange(r.Start, r.End)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " must have start and end in YYYY-MM-DD format with start not after end",
		})
		return DateRange{}, errs
	}
	rng := DateRange{Start: NewDate(start), End: NewDate(end)}
	if rng.Days() > MaxRangeDays {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must not span more than %d days", field, MaxRangeDays),
		})
		return DateRange{}, errs
	}
	return rng, errs
}

type AggregateRequest struct {
	// Records is a pointer so a missing field is told apart from an empty list.
	Records     *[]AttendanceRecord `json:"records"`
	Config      *ConfigInput        `json:"config,omitempty"`
	Granularity string              `json:"granularity"`
	Range       RangeInput          `json:"range"`

	// Parsed by Validate
	ParsedRange DateRange `json:"-"`
}

// Validate returns ErrRecordsRequired when records is missing altogether,
// and ValidationErrors for everything else.
func (r *AggregateRequest) Validate() error {
	if r.Records == nil {
		return ErrRecordsRequired
	}

	var errs validator.ValidationErrors

	for _, rec := range *r.Records {
		if rec.Date.IsZero() {
			errs = append(errs, validator.ValidationError{
				Field:   "records.date",
				Message: "every record needs a date",
			})
			break
		}
	}

	r.Granularity = strings.ToLower(strings.TrimSpace(r.Granularity))
	if !Granularity(r.Granularity).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "granularity",
			Message: "granularity must be one of: daily, weekly, monthly",
		})
	}

	r.ParsedRange, errs = r.Range.validate(errs, "range")
	errs = r.Config.validate(errs)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StudentStatisticsFilter struct {
	StudentID   string `json:"studentId"`
	Granularity string `json:"granularity"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	EndDate     string `json:"endDate"`   // YYYY-MM-DD

	// Parsed by Validate
	ParsedRange DateRange `json:"-"`
}

func (f *StudentStatisticsFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.StudentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "studentId",
			Message: "studentId is required",
		})
	}

	f.Granularity = strings.ToLower(strings.TrimSpace(f.Granularity))
	if f.Granularity == "" {
		f.Granularity = string(GranularityDaily)
	}
	if !Granularity(f.Granularity).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "granularity",
			Message: "granularity must be one of: daily, weekly, monthly",
		})
	}

	f.ParsedRange, errs = RangeInput{Start: f.StartDate, End: f.EndDate}.validate(errs, "range")

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OverviewResponse struct {
	StudentID string          `json:"studentId"`
	Date      Date            `json:"date"`
	Week      AggregateResult `json:"week"`
	Year      AggregateResult `json:"year"`
}
