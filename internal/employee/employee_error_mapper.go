package employee

import (
	"errors"

	employeeerrors "go-leave/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUndefinedTable        = "42P01"
	pgInsufficientPrivilege = "42501"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable, pgInsufficientPrivilege:
			return employeeerrors.ErrDirectoryUnavailable.WithCause(err)
		}
	}
	return err
}
