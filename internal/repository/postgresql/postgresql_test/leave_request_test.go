package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/campus-attendance-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLeaveRequest(t *testing.T, ctx context.Context, db *database.DB, studentID string, requestType approval.RequestType, approvals map[string]string) string {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := db.Exec(ctx, `
		INSERT INTO leave_requests (id, student_id, request_type, dates_applied, start_date, end_date, reason, approvals, approvals_version)
		VALUES ($1, $2, $3, $4, $4, $4, 'family function', $5, 1)
	`, id, studentID, string(requestType), time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), approvals)
	require.NoError(t, err)
	return id
}

// ===== LEAVE REQUEST REPOSITORY TESTS =====

func TestLeaveRequestRepository_GetByID_Success(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	id := createTestLeaveRequest(t, ctx, setup.DB, "stu-1", approval.RequestTypeInternship, map[string]string{
		"Mentor":            "approved",
		"Placement Officer": "rejected",
	})

	// Act
	lr, err := repo.GetByID(ctx, id)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, id, lr.ID)
	assert.Equal(t, approval.RequestTypeInternship, lr.RequestType)
	assert.Equal(t, "rejected", lr.Approvals["Placement Officer"])
	assert.Equal(t, int64(1), lr.ApprovalsVersion)
}

func TestLeaveRequestRepository_GetByID_NotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()).String())

	assert.ErrorIs(t, err, approval.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_ListByStudentID(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	createTestLeaveRequest(t, ctx, setup.DB, "stu-1", approval.RequestTypeLeave, map[string]string{"Mentor": "approved"})
	createTestLeaveRequest(t, ctx, setup.DB, "stu-1", approval.RequestTypeOnDuty, map[string]string{})
	createTestLeaveRequest(t, ctx, setup.DB, "stu-2", approval.RequestTypeLeave, map[string]string{})

	all, err := repo.ListByStudentID(ctx, "stu-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onDuty := approval.RequestTypeOnDuty
	filtered, err := repo.ListByStudentID(ctx, "stu-1", &onDuty)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, approval.RequestTypeOnDuty, filtered[0].RequestType)
}

func TestLeaveRequestRepository_UpdateApprovals_VersionCheck(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	id := createTestLeaveRequest(t, ctx, setup.DB, "stu-1", approval.RequestTypeLeave, map[string]string{})

	// Act
	var newVersion int64
	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		lr, err := repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		newVersion, err = repo.UpdateApprovals(txCtx, id, map[string]string{"Mentor": "approved"}, lr.ApprovalsVersion)
		return err
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), newVersion)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "approved", stored.Approvals["Mentor"])

	_, err = repo.UpdateApprovals(ctx, id, map[string]string{"Mentor": "rejected"}, 1)
	assert.ErrorIs(t, err, approval.ErrVersionConflict)

	_, err = repo.UpdateApprovals(ctx, uuid.Must(uuid.NewV7()).String(), map[string]string{}, 1)
	assert.ErrorIs(t, err, approval.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_GetByID_NonStringStatus(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	id := uuid.Must(uuid.NewV7()).String()
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO leave_requests (id, student_id, request_type, dates_applied, start_date, end_date, approvals)
		VALUES ($1, 'stu-1', 'leave', '2024-03-04', '2024-03-04', '2024-03-04',
			'{"Mentor": "approved", "Class Advisor": 1, "HOD": true, "Principal": null}'::jsonb)
	`, id)
	require.NoError(t, err)

	// Act
	lr, err := repo.GetByID(ctx, id)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "approved", lr.Approvals["Mentor"])
	assert.Equal(t, "1", lr.Approvals["Class Advisor"])
	assert.Equal(t, "true", lr.Approvals["HOD"])
	assert.Equal(t, "", lr.Approvals["Principal"])
	assert.Equal(t, approval.StageStatusPending, approval.ParseStageStatus(lr.Approvals["HOD"]))
}
