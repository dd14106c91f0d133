package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/database"
)

// TestDatabaseSetup holds the connection used by repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS leave_requests (
		id                UUID PRIMARY KEY,
		student_id        TEXT NOT NULL,
		request_type      TEXT NOT NULL,
		dates_applied     DATE NOT NULL,
		start_date        DATE NOT NULL,
		end_date          DATE NOT NULL,
		reason            TEXT NOT NULL DEFAULT '',
		approvals         JSONB NOT NULL DEFAULT '{}'::jsonb,
		approvals_version BIGINT NOT NULL DEFAULT 1,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendance_records (
		student_id      TEXT NOT NULL,
		date            DATE NOT NULL,
		in_time         TIME,
		out_time        TIME,
		od_flag         BOOLEAN,
		permission_flag BOOLEAN,
		holiday_flag    BOOLEAN,
		UNIQUE (student_id, date)
	);
`

// NewTestDatabase connects to TEST_DATABASE_URL and makes sure the schema
// exists. The test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if _, err := db.Exec(context.Background(), schema); err != nil {
		db.Close()
		t.Fatalf("failed to create schema: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row written by repository tests.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"leave_requests",
		"attendance_records",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
