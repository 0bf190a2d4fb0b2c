package apperror

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"go-leave/internal/shared/validation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// formatFieldName turns leaveReason or leave_reason into "Leave Reason".
func formatFieldName(s string) string {
	s = camelBoundary.ReplaceAllString(s, "$1 $2")
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		if msg := validation.FieldMessage(e); msg != "" {
			return New(CodeValidation, msg, http.StatusBadRequest)
		}
		field := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		default:
			return InvalidField(field)
		}
	}

	return New(
		CodeValidation,
		"Invalid input",
		http.StatusBadRequest,
	)
}
