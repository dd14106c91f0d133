package attendance

import (
	"context"
)

// AttendanceService defines attendance statistics operations
type AttendanceService interface {
	// Classify classifies a single posted day
	Classify(ctx context.Context, req ClassifyDayRequest) (DailyClassification, error)

	// Aggregate aggregates posted records without touching storage
	Aggregate(ctx context.Context, req AggregateRequest) (AggregateResult, error)

	// GetStudentStatistics loads a student's records and aggregates them
	GetStudentStatistics(ctx context.Context, filter StudentStatisticsFilter) (AggregateResult, error)

	// GetStudentOverview returns the current week and the year of a date
	GetStudentOverview(ctx context.Context, studentID string, date string) (OverviewResponse, error)
}
