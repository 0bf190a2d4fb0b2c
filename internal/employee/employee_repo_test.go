package employee_test

import (
	"context"
	"regexp"
	"testing"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/role"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (employee.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return employee.NewRepository(gormDB), mock
}

func employeeColumns() []string {
	return []string{"id", "employee_code", "name", "role", "designation", "department",
		"whatsapp_number", "email", "work_location", "password_hash",
		"manager_code", "partner_code", "hr_code"}
}

func TestRepository_FindByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupRepo(t)
		rows := sqlmock.NewRows(employeeColumns()).AddRow(
			"0d6f1c2a-9a51-4d0f-8f51-0b6a8c1e7a11", "EMP001", "Asha Rao", "EMPLOYEE", "Analyst", "Audit",
			"+919147389854", "asha@example.com", "Kolkata", "",
			"MGR001", "PTR001", "HR001",
		)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "employees" WHERE employee_code = $1`)).
			WithArgs("EMP001", 1).
			WillReturnRows(rows)

		got, err := repo.FindByCode(ctx, "EMP001")
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", got.Name)
		assert.Equal(t, role.Employee, got.Role)
		assert.Equal(t, "MGR001", got.ApproverCode(role.Manager))
		assert.Equal(t, "PTR001", got.ApproverCode(role.Partner))
		assert.Equal(t, "HR001", got.ApproverCode(role.HR))
		assert.Empty(t, got.ApproverCode(role.Employee))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "employees" WHERE employee_code = $1`)).
			WithArgs("NOPE", 1).
			WillReturnRows(sqlmock.NewRows(employeeColumns()))

		_, err := repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindByWhatsAppNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("negative driver error passes through", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "employees" WHERE whatsapp_number = $1`)).
			WithArgs("+919147389854", 1).
			WillReturnError(&pgconn.PgError{Code: "57014", Message: "canceling statement"})

		_, err := repo.FindByWhatsAppNumber(ctx, "+919147389854")
		var pgErr *pgconn.PgError
		assert.ErrorAs(t, err, &pgErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative missing table marks directory unavailable", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "employees" WHERE whatsapp_number = $1`)).
			WithArgs("+919147389854", 1).
			WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "employees" does not exist`})

		_, err := repo.FindByWhatsAppNumber(ctx, "+919147389854")
		assert.ErrorIs(t, err, employeeerrors.ErrDirectoryUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
