package validation

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	TagWhatsApp = "whatsapp"

	PasswordMinLen = 5
	ReasonMinLen   = 10
	ReasonMaxLen   = 500
	DateLayout     = "2006-01-02"
)

var whatsAppPattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func IsWhatsAppNumber(v string) bool {
	return whatsAppPattern.MatchString(v)
}

// Register adds the custom tags used by request and credential structs.
func Register(v *validator.Validate) error {
	return v.RegisterValidation(TagWhatsApp, func(fl validator.FieldLevel) bool {
		return IsWhatsAppNumber(fl.Field().String())
	})
}

// New returns a validator with custom tags registered and json field names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Message returns the user facing text for the first failing field, or ""
// when err carries no field errors.
func Message(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return ""
	}
	return FieldMessage(errs[0])
}

func FieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "whatsappNumber":
		if fe.Tag() == "required" {
			return "WhatsApp number is required"
		}
		return "Please enter a valid WhatsApp number"
	case "password":
		if fe.Tag() == "required" {
			return "Password is required"
		}
		return "Password must be at least 5 characters"
	case "employeeCode":
		return "Employee code is required"
	case "leaveReason":
		switch fe.Tag() {
		case "required":
			return "Reason is required"
		case "max":
			return "Reason too long"
		default:
			return "Reason must be at least 10 characters"
		}
	case "fromDate":
		if fe.Tag() == "required" {
			return "From date is required"
		}
		return "From date must be YYYY-MM-DD"
	case "toDate":
		if fe.Tag() == "required" {
			return "To date is required"
		}
		return "To date must be YYYY-MM-DD"
	case "leaveId":
		return "Leave id is required"
	case "status":
		return "Status must be Approved or Rejected"
	}
	return ""
}
