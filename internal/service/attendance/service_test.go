package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecordRepository struct {
	mu      sync.Mutex
	records map[string][]attendance.AttendanceRecord
	calls   []attendance.DateRange
	err     error
}

func (f *fakeRecordRepository) ListByStudentAndRange(ctx context.Context, studentID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, attendance.DateRange{Start: attendance.NewDate(start), End: attendance.NewDate(end)})
	if f.err != nil {
		return nil, f.err
	}

	rng := attendance.DateRange{Start: attendance.NewDate(start), End: attendance.NewDate(end)}
	var out []attendance.AttendanceRecord
	for _, rec := range f.records[studentID] {
		if rng.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newTestService(repo *fakeRecordRepository, now time.Time) *AttendanceServiceImpl {
	svc := NewAttendanceService(repo, testConfig).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func strPtr(s string) *string {
	return &s
}

// ===== ATTENDANCE SERVICE TESTS =====

func TestAttendanceService_Classify_UsesConfigOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(&fakeRecordRepository{}, time.Now())
	rec := record(day(time.May, 6), "09:15", "16:00")

	// Act
	withDefault, err := svc.Classify(ctx, attendance.ClassifyDayRequest{Record: &rec})
	require.NoError(t, err)
	withOverride, err := svc.Classify(ctx, attendance.ClassifyDayRequest{
		Record: &rec,
		Config: &attendance.ConfigInput{LateCutoff: strPtr("09:30")},
	})
	require.NoError(t, err)

	// Assert
	assert.True(t, withDefault.LateArrival)
	assert.False(t, withOverride.LateArrival)
}

func TestAttendanceService_Classify_MidnightCutoffOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(&fakeRecordRepository{}, time.Now())
	rec := record(day(time.May, 6), "07:00", "16:00")

	// Act
	got, err := svc.Classify(ctx, attendance.ClassifyDayRequest{
		Record: &rec,
		Config: &attendance.ConfigInput{LateCutoff: strPtr("00:00")},
	})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, attendance.DayStatusPresent, got.Status)
	assert.True(t, got.LateArrival)
}

func TestAttendanceService_Classify_InvalidRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(&fakeRecordRepository{}, time.Now())
	rec := record(day(time.May, 6), "09:15", "16:00")

	_, err := svc.Classify(ctx, attendance.ClassifyDayRequest{})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "record", verrs[0].Field)

	_, err = svc.Classify(ctx, attendance.ClassifyDayRequest{
		Record: &rec,
		Config: &attendance.ConfigInput{EarlyCutoff: strPtr("25:00")},
	})
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "config.earlyCutoff", verrs[0].Field)
}

func TestAttendanceService_Aggregate_RequiresRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(&fakeRecordRepository{}, time.Now())

	_, err := svc.Aggregate(ctx, attendance.AggregateRequest{
		Granularity: "weekly",
		Range:       attendance.RangeInput{Start: "2024-05-01", End: "2024-05-31"},
	})

	assert.ErrorIs(t, err, attendance.ErrRecordsRequired)
}

func TestAttendanceService_Aggregate_RangeBounds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(&fakeRecordRepository{}, time.Now())
	records := []attendance.AttendanceRecord{}

	tests := []struct {
		name    string
		rng     attendance.RangeInput
		wantErr bool
	}{
		{name: "inverted", rng: attendance.RangeInput{Start: "2024-05-31", End: "2024-05-01"}, wantErr: true},
		{name: "longer than the limit", rng: attendance.RangeInput{Start: "2000-01-01", End: "2024-05-31"}, wantErr: true},
		{name: "exactly the limit", rng: attendance.RangeInput{Start: "2000-01-01", End: "2010-01-07"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Aggregate(ctx, attendance.AggregateRequest{
				Records:     &records,
				Granularity: "monthly",
				Range:       tt.rng,
			})

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.ToMap(), "range")
		})
	}
}

func TestAttendanceService_Aggregate_EmptyRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(&fakeRecordRepository{}, time.Now())
	empty := []attendance.AttendanceRecord{}

	// Act
	result, err := svc.Aggregate(ctx, attendance.AggregateRequest{
		Records:     &empty,
		Granularity: " Monthly ",
		Range:       attendance.RangeInput{Start: "2024-05-01", End: "2024-05-31"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, attendance.GranularityMonthly, result.Granularity)
	require.Len(t, result.Periods, 1)
	assert.Equal(t, 0, result.Summary.TotalDays)
	assert.Equal(t, 0.0, result.Summary.Percentage)
}

func TestAttendanceService_GetStudentStatistics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &fakeRecordRepository{records: map[string][]attendance.AttendanceRecord{
		"stu-1": {
			record(day(time.May, 6), "08:30", "16:00"),
			record(day(time.May, 7), "", ""),
		},
	}}
	svc := newTestService(repo, time.Now())

	// Act
	result, err := svc.GetStudentStatistics(ctx, attendance.StudentStatisticsFilter{
		StudentID: "stu-1",
		StartDate: "2024-05-01",
		EndDate:   "2024-05-31",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, attendance.GranularityDaily, result.Granularity)
	assert.Equal(t, 2, result.Summary.TotalDays)
	assert.Equal(t, 50.0, result.Summary.Percentage)
	assert.Len(t, result.Days, 2)
}

func TestAttendanceService_GetStudentStatistics_RepositoryError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("connection refused")
	svc := newTestService(&fakeRecordRepository{err: boom}, time.Now())

	_, err := svc.GetStudentStatistics(ctx, attendance.StudentStatisticsFilter{
		StudentID: "stu-1",
		StartDate: "2024-05-01",
		EndDate:   "2024-05-31",
	})

	assert.ErrorIs(t, err, boom)
}

func TestAttendanceService_GetStudentOverview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &fakeRecordRepository{records: map[string][]attendance.AttendanceRecord{
		"stu-1": {
			record(attendance.DateOf(2023, time.December, 29), "", ""),
			record(attendance.DateOf(2024, time.January, 2), "08:30", "16:00"),
			record(attendance.DateOf(2024, time.March, 5), "08:30", "16:00"),
		},
	}}
	// Wednesday of ISO week 2024-W01, which starts on Monday 2024-01-01.
	svc := newTestService(repo, time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC))

	// Act
	overview, err := svc.GetStudentOverview(ctx, "stu-1", "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, attendance.DateOf(2024, time.January, 3), overview.Date)

	assert.Equal(t, attendance.DateOf(2024, time.January, 1), overview.Week.Range.Start)
	assert.Equal(t, attendance.DateOf(2024, time.January, 7), overview.Week.Range.End)
	assert.Equal(t, 1, overview.Week.Summary.PresentDays)

	require.Len(t, overview.Year.Periods, 12)
	assert.Equal(t, "2024", overview.Year.Summary.Label)
	assert.Equal(t, 2, overview.Year.Summary.PresentDays)
	assert.Len(t, repo.calls, 2)
}

func TestAttendanceService_GetStudentOverview_WeekStraddlesYear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &fakeRecordRepository{records: map[string][]attendance.AttendanceRecord{
		"stu-1": {
			record(attendance.DateOf(2024, time.December, 30), "08:30", "16:00"),
			record(attendance.DateOf(2025, time.January, 2), "", ""),
		},
	}}
	svc := newTestService(repo, time.Now())

	overview, err := svc.GetStudentOverview(ctx, "stu-1", "2025-01-02")

	require.NoError(t, err)
	assert.Equal(t, 2, overview.Week.Summary.TotalDays)
	assert.Equal(t, 1, overview.Year.Summary.TotalDays)
	assert.Equal(t, "2025-W01", overview.Week.Periods[0].Label)
}

func TestAttendanceService_GetStudentOverview_InvalidInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(&fakeRecordRepository{}, time.Now())

	_, err := svc.GetStudentOverview(ctx, " ", "")
	assert.ErrorIs(t, err, attendance.ErrStudentIDRequired)

	_, err = svc.GetStudentOverview(ctx, "stu-1", "2024-13-01")
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}
