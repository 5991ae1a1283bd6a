package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/hrmlabs/hrm-backend-go/migrations"
	"github.com/stretchr/testify/require"
)

// testDB is nil when TEST_DATABASE_URL is unset; every test then skips.
var testDB *database.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	migrator, err := database.NewMigrator(dsn, migrations.FS)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open migrations:", err)
		os.Exit(1)
	}
	if _, err := migrator.Reset(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "failed to reset schema:", err)
		os.Exit(1)
	}
	if _, err := migrator.Up(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "failed to migrate:", err)
		os.Exit(1)
	}
	migrator.Close()

	testDB, err = database.NewPostgreSQLDB(dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to connect to test database:", err)
		os.Exit(1)
	}

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return testDB
}

// createOrganization inserts a fresh tenant so tests never share rows.
func createOrganization(t *testing.T, ctx context.Context, db *database.DB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(ctx, `
		INSERT INTO organizations (id, name, slug, created_at, updated_at)
		VALUES ($1, 'Acme ' || $2::text, 'acme-' || $2::text, NOW(), NOW())
	`, id, id[:8])
	require.NoError(t, err)
	return id
}

func createEmployee(t *testing.T, ctx context.Context, db *database.DB, orgID, departmentID, designationID, code string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(ctx, `
		INSERT INTO employees (
			id, organization_id, employee_code, first_name, last_name, email, phone,
			date_of_birth, gender, marital_status, department_id, designation_id,
			employment_type, joining_date, emergency_contacts
		) VALUES (
			$1, $2, $3, 'Asha', 'Rao', $3::text || '@acme.test', '+910000000000',
			'1990-01-01', 'FEMALE', 'SINGLE', $4, $5,
			'FULL_TIME', '2025-01-06', '[{"name":"Ravi","relationship":"Brother","phone":"+911111111111"}]'
		)
	`, id, orgID, code, departmentID, designationID)
	require.NoError(t, err)
	return id
}
