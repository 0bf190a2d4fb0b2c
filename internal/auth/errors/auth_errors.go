package autherrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid credentials",
		http.StatusUnauthorized,
	)
	ErrTokenMissing = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)
	ErrInvalidWhatsAppNumber = apperror.New(
		apperror.CodeValidation,
		"Please enter a valid WhatsApp number",
		http.StatusBadRequest,
	)
	ErrPasswordTooShort = apperror.New(
		apperror.CodeValidation,
		"Password must be at least 5 characters",
		http.StatusBadRequest,
	)
	ErrPasswordLoginNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"This role signs in with a WhatsApp number",
		http.StatusBadRequest,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to issue access token",
		http.StatusInternalServerError,
	)
)
