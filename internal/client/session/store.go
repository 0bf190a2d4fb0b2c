package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-leave/internal/client/api"
	"go-leave/internal/role"
	"go-leave/internal/shared/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// Credentials holds what the login form collects. Employees log in with
// WhatsAppNumber only; every other role uses EmployeeCode and Password.
type Credentials struct {
	WhatsAppNumber string
	EmployeeCode   string
	Password       string
}

type employeeCredentials struct {
	WhatsAppNumber string `json:"whatsappNumber" validate:"required,whatsapp"`
}

type passwordCredentials struct {
	EmployeeCode string `json:"employeeCode" validate:"required"`
	Password     string `json:"password" validate:"required,min=5"`
}

// Authenticator is the part of the backend client a login needs.
type Authenticator interface {
	EmployeeLogin(ctx context.Context, whatsappNumber string) (api.LoginResult, error)
	PasswordLogin(ctx context.Context, r role.Role, employeeCode, password string) (api.LoginResult, error)
}

type Store struct {
	storage  Storage
	codec    *securecookie.SecureCookie
	auth     Authenticator
	validate *validator.Validate
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Store)

// WithTTL bounds how long a stored session stays valid. Zero keeps sessions
// until logout.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.Named("client.session")
		}
	}
}

// NewStore signs every slot with hashKey and, when blockKey is set, encrypts
// it as well.
func NewStore(storage Storage, auth Authenticator, hashKey, blockKey []byte, opts ...Option) *Store {
	if len(blockKey) == 0 {
		blockKey = nil
	}
	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(0)
	codec.MaxLength(0)

	s := &Store{
		storage:  storage,
		codec:    codec,
		auth:     auth,
		validate: validation.New(),
		now:      time.Now,
		logger:   zap.L().Named("client.session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates against the backend and persists the session in r's
// slot. Other roles' slots are left alone.
func (s *Store) Login(ctx context.Context, r role.Role, creds Credentials) (*Session, error) {
	if !r.Valid() {
		return nil, &AuthError{Kind: ValidationFailure, Message: "Unknown role"}
	}
	if err := s.validateCredentials(r, creds); err != nil {
		return nil, err
	}

	var (
		res api.LoginResult
		err error
	)
	if r == role.Employee {
		res, err = s.auth.EmployeeLogin(ctx, strings.TrimSpace(creds.WhatsAppNumber))
	} else {
		res, err = s.auth.PasswordLogin(ctx, r, strings.TrimSpace(creds.EmployeeCode), creds.Password)
	}
	if err != nil {
		return nil, s.mapLoginError(r, err)
	}
	if role.Role(res.Role) != r {
		s.logger.Error("backend answered with another role", zap.String("want", r.String()), zap.String("got", res.Role))
		return nil, &AuthError{Kind: InvalidCredentials, Message: "Invalid credentials"}
	}

	identity, err := identityFromAPI(r, res.Identity)
	if err != nil {
		return nil, &AuthError{Kind: InvalidCredentials, Message: "Invalid credentials", Err: err}
	}

	now := s.now().UTC()
	sess := &Session{
		Role:        r,
		Identity:    identity,
		AccessToken: res.AccessToken,
		IssuedAt:    now,
	}
	if s.ttl > 0 {
		sess.ExpiresAt = now.Add(s.ttl)
	}

	encoded, err := s.codec.Encode(r.Slot(), sess)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Save(r.Slot(), []byte(encoded)); err != nil {
		s.logger.Error("persist session failed", zap.String("slot", r.Slot()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("login success", zap.String("role", r.String()), zap.String("employee_code", identity.Code()))
	return sess, nil
}

func (s *Store) validateCredentials(r role.Role, creds Credentials) error {
	var err error
	if r == role.Employee {
		err = s.validate.Struct(employeeCredentials{WhatsAppNumber: strings.TrimSpace(creds.WhatsAppNumber)})
	} else {
		err = s.validate.Struct(passwordCredentials{EmployeeCode: strings.TrimSpace(creds.EmployeeCode), Password: creds.Password})
	}
	if err == nil {
		return nil
	}
	msg := validation.Message(err)
	if msg == "" {
		msg = "Invalid input"
	}
	return &AuthError{Kind: ValidationFailure, Message: msg, Err: err}
}

func (s *Store) mapLoginError(r role.Role, err error) error {
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		s.logger.Warn("login network failure", zap.String("role", r.String()), zap.Error(err))
		return &AuthError{Kind: NetworkFailure, Message: "Unable to reach the server, please try again", Err: err}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusBadRequest:
			return &AuthError{Kind: ValidationFailure, Message: apiErr.Message, Err: err}
		case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden || apiErr.Status == http.StatusNotFound:
			s.logger.Warn("login rejected", zap.String("role", r.String()), zap.Int("status", apiErr.Status))
			return &AuthError{Kind: InvalidCredentials, Message: "Invalid credentials", Err: err}
		case apiErr.Status >= http.StatusInternalServerError:
			return &AuthError{Kind: NetworkFailure, Message: "Server error, please try again", Err: err}
		}
		return &AuthError{Kind: InvalidCredentials, Message: apiErr.Message, Err: err}
	}

	return &AuthError{Kind: NetworkFailure, Message: "Unable to reach the server, please try again", Err: err}
}

// Logout clears the slot of every role, whether or not it was populated.
func (s *Store) Logout() error {
	var errs []error
	for _, r := range role.SessionPriority {
		if err := s.storage.Delete(r.Slot()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Error("logout incomplete", zap.Error(err))
		return err
	}
	s.logger.Info("logout")
	return nil
}

// Current returns the first valid session in SessionPriority order.
// Unreadable, tampered and expired slots count as absent.
func (s *Store) Current() (*Session, bool) {
	now := s.now()
	for _, r := range role.SessionPriority {
		sess, ok := s.load(r)
		if !ok {
			continue
		}
		if sess.Expired(now) {
			s.logger.Debug("session expired", zap.String("slot", r.Slot()))
			continue
		}
		return sess, true
	}
	return nil, false
}

// ForRole returns the session stored in r's slot, if it is valid.
func (s *Store) ForRole(r role.Role) (*Session, bool) {
	sess, ok := s.load(r)
	if !ok || sess.Expired(s.now()) {
		return nil, false
	}
	return sess, true
}

func (s *Store) load(r role.Role) (*Session, bool) {
	data, err := s.storage.Load(r.Slot())
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			s.logger.Warn("read session slot failed", zap.String("slot", r.Slot()), zap.Error(err))
		}
		return nil, false
	}

	var sess Session
	if err := s.codec.Decode(r.Slot(), string(data), &sess); err != nil {
		s.logger.Warn("discarding unreadable session slot", zap.String("slot", r.Slot()), zap.Error(err))
		return nil, false
	}
	if sess.Role != r {
		s.logger.Warn("session slot holds another role", zap.String("slot", r.Slot()), zap.String("role", sess.Role.String()))
		return nil, false
	}
	return &sess, true
}
