package session

type AuthErrorKind int

const (
	InvalidCredentials AuthErrorKind = iota + 1
	NetworkFailure
	ValidationFailure
)

func (k AuthErrorKind) String() string {
	switch k {
	case InvalidCredentials:
		return "InvalidCredentials"
	case NetworkFailure:
		return "NetworkFailure"
	case ValidationFailure:
		return "ValidationFailure"
	}
	return "Unknown"
}

// AuthError is every way a login can fail. Message is safe to show.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
