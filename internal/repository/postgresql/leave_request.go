package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) approval.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.student_id, lr.request_type, lr.dates_applied, lr.start_date, lr.end_date,
	lr.reason, COALESCE(lr.approvals, '{}'::jsonb), lr.approvals_version, lr.created_at, lr.updated_at
`

// scanLeaveRequest reads one row. The approvals JSONB is decoded through
// approval.Approvals so non-string values read as pending instead of
// failing the scan.
func scanLeaveRequest(row pgx.Row) (approval.LeaveRequest, error) {
	var (
		lr        approval.LeaveRequest
		approvals []byte
	)
	err := row.Scan(
		&lr.ID,
		&lr.StudentID,
		&lr.RequestType,
		&lr.DatesApplied,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Reason,
		&approvals,
		&lr.ApprovalsVersion,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	if err != nil {
		return approval.LeaveRequest{}, err
	}

	if err := json.Unmarshal(approvals, &lr.Approvals); err != nil {
		return approval.LeaveRequest{}, fmt.Errorf("failed to decode approvals of %s: %w", lr.ID, err)
	}
	return lr, nil
}

// GetByID implements approval.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (approval.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.id = $1
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.LeaveRequest{}, approval.ErrLeaveRequestNotFound
		}
		return approval.LeaveRequest{}, err
	}

	return lr, nil
}

// GetByIDForUpdate implements approval.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (approval.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.id = $1
		FOR UPDATE
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.LeaveRequest{}, approval.ErrLeaveRequestNotFound
		}
		return approval.LeaveRequest{}, err
	}

	return lr, nil
}

// ListByStudentID implements approval.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByStudentID(ctx context.Context, studentID string, requestType *approval.RequestType) ([]approval.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.student_id = $1
	`
	args := []interface{}{studentID}
	if requestType != nil {
		query += ` AND lr.request_type = $2`
		args = append(args, string(*requestType))
	}
	query += ` ORDER BY lr.dates_applied DESC, lr.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []approval.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// UpdateApprovals implements approval.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateApprovals(ctx context.Context, id string, approvals map[string]string, expectedVersion int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET approvals = $2, approvals_version = approvals_version + 1, updated_at = NOW()
		WHERE id = $1 AND approvals_version = $3
		RETURNING approvals_version
	`

	var newVersion int64
	err := q.QueryRow(ctx, query, id, approvals, expectedVersion).Scan(&newVersion)
	if err == nil {
		return newVersion, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// No row matched: either the request is gone or the version moved.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check leave request existence: %w", err)
	}
	if !exists {
		return 0, approval.ErrLeaveRequestNotFound
	}
	return 0, approval.ErrVersionConflict
}
