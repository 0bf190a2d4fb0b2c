package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidation,
		"Dates must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidation,
		"From date must be on or before to date",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeValidation,
		"Reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrReasonTooLong = apperror.New(
		apperror.CodeValidation,
		"Reason too long",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeValidation,
		"Status must be Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrScopeKeyRequired = apperror.New(
		apperror.CodeValidation,
		"employeeCode is required",
		http.StatusBadRequest,
	)
	ErrSubmitNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"This role cannot submit leave applications",
		http.StatusForbidden,
	)
	ErrEmployeeCodeMismatch = apperror.New(
		apperror.CodeForbidden,
		"Leave can only be submitted for your own employee code",
		http.StatusForbidden,
	)
	ErrScopeMismatch = apperror.New(
		apperror.CodeForbidden,
		"You can only list applications assigned to you",
		http.StatusForbidden,
	)
	ErrUnauthorizedApprover = apperror.New(
		apperror.CodeForbidden,
		"You are not an approver for this leave application",
		http.StatusForbidden,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave application not found",
		http.StatusNotFound,
	)
	ErrAlreadyTerminal = apperror.New(
		apperror.CodeInvalidState,
		"Leave application has already been decided",
		http.StatusConflict,
	)
	ErrDuplicateLeave = apperror.New(
		apperror.CodeConflict,
		"Leave application already exists",
		http.StatusConflict,
	)
)
