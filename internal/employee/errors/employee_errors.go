package employeeerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	// ErrDirectoryUnavailable means the directory tables cannot be read at
	// all, as opposed to a single lookup failing.
	ErrDirectoryUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Employee directory is unavailable",
		http.StatusServiceUnavailable,
	)
)
