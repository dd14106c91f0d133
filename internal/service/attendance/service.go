package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRecordRepository
	cfg attendance.Config
	now func() time.Time
}

// NewAttendanceService creates an AttendanceService. cfg holds the default
// cutoffs applied when a request does not carry its own.
func NewAttendanceService(recordRepo attendance.AttendanceRecordRepository, cfg attendance.Config) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRecordRepository: recordRepo,
		cfg:                        cfg,
		now:                        time.Now,
	}
}

// Classify implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Classify(ctx context.Context, req attendance.ClassifyDayRequest) (attendance.DailyClassification, error) {
	if err := req.Validate(); err != nil {
		return attendance.DailyClassification{}, err
	}

	return ClassifyDay(*req.Record, req.Config.Apply(s.cfg)), nil
}

// Aggregate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Aggregate(ctx context.Context, req attendance.AggregateRequest) (attendance.AggregateResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.AggregateResult{}, err
	}

	return Aggregate(*req.Records, attendance.Granularity(req.Granularity), req.ParsedRange, req.Config.Apply(s.cfg))
}

// GetStudentStatistics implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStudentStatistics(ctx context.Context, filter attendance.StudentStatisticsFilter) (attendance.AggregateResult, error) {
	if err := filter.Validate(); err != nil {
		return attendance.AggregateResult{}, err
	}

	records, err := s.AttendanceRecordRepository.ListByStudentAndRange(ctx, filter.StudentID, filter.ParsedRange.Start.Time, filter.ParsedRange.End.Time)
	if err != nil {
		return attendance.AggregateResult{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return Aggregate(records, attendance.Granularity(filter.Granularity), filter.ParsedRange, s.cfg)
}

// GetStudentOverview implements attendance.AttendanceService.
// The week of date and the whole year of date are loaded concurrently since
// a week can straddle the year boundary. An empty date means today.
func (s *AttendanceServiceImpl) GetStudentOverview(ctx context.Context, studentID string, date string) (attendance.OverviewResponse, error) {
	if strings.TrimSpace(studentID) == "" {
		return attendance.OverviewResponse{}, attendance.ErrStudentIDRequired
	}

	day := attendance.NewDate(s.now().UTC())
	if strings.TrimSpace(date) != "" {
		parsed, err := attendance.ParseDate(date)
		if err != nil {
			return attendance.OverviewResponse{}, attendance.ErrInvalidRange
		}
		day = parsed
	}

	weekStart := day.AddDays(-((int(day.Weekday()) + 6) % 7))
	week := attendance.DateRange{Start: weekStart, End: weekStart.AddDays(6)}
	year := attendance.DateRange{
		Start: attendance.DateOf(day.Year(), time.January, 1),
		End:   attendance.DateOf(day.Year(), time.December, 31),
	}

	var weekRecords, yearRecords []attendance.AttendanceRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weekRecords, err = s.AttendanceRecordRepository.ListByStudentAndRange(gctx, studentID, week.Start.Time, week.End.Time)
		if err != nil {
			return fmt.Errorf("failed to list weekly attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		yearRecords, err = s.AttendanceRecordRepository.ListByStudentAndRange(gctx, studentID, year.Start.Time, year.End.Time)
		if err != nil {
			return fmt.Errorf("failed to list yearly attendance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return attendance.OverviewResponse{}, err
	}

	weekResult, err := Aggregate(weekRecords, attendance.GranularityWeekly, week, s.cfg)
	if err != nil {
		return attendance.OverviewResponse{}, err
	}
	yearResult, err := AggregateYear(yearRecords, day.Year(), s.cfg)
	if err != nil {
		return attendance.OverviewResponse{}, err
	}

	return attendance.OverviewResponse{
		StudentID: studentID,
		Date:      day,
		Week:      weekResult,
		Year:      yearResult,
	}, nil
}
