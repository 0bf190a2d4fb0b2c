package auth

import (
	"context"
	"errors"
	"strings"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/role"
	"go-leave/internal/shared/token"
	"go-leave/internal/shared/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	LoginEmployee(ctx context.Context, whatsappNumber string) (LoginResponse, error)
	LoginWithPassword(ctx context.Context, r role.Role, employeeCode, password string) (LoginResponse, error)
}

type TokenIssuer interface {
	Issue(employeeCode, employeeID string, r role.Role) (string, *token.Claims, error)
}

type service struct {
	employees employee.Repository
	tokens    TokenIssuer
	logger    *zap.Logger
}

func NewService(employees employee.Repository, tokens TokenIssuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{employees: employees, tokens: tokens, logger: l}
}

func (s *service) LoginEmployee(ctx context.Context, whatsappNumber string) (LoginResponse, error) {
	number := strings.TrimSpace(whatsappNumber)
	s.logger.Debug("employee login requested", zap.String("whatsapp_number", maskNumber(number)))

	if !validation.IsWhatsAppNumber(number) {
		s.logger.Warn("employee login validation failed", zap.String("whatsapp_number", maskNumber(number)))
		return LoginResponse{}, autherrors.ErrInvalidWhatsAppNumber
	}

	emp, err := s.employees.FindByWhatsAppNumber(ctx, number)
	if err != nil {
		return LoginResponse{}, s.lookupFailed("employee login", err)
	}
	if emp.Role != role.Employee {
		s.logger.Warn("employee login role mismatch",
			zap.String("employee_code", emp.EmployeeCode),
			zap.String("directory_role", emp.Role.String()),
		)
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issue(emp, role.Employee)
}

func (s *service) LoginWithPassword(ctx context.Context, r role.Role, employeeCode, password string) (LoginResponse, error) {
	code := strings.TrimSpace(employeeCode)
	s.logger.Debug("password login requested", zap.String("role", r.String()), zap.String("employee_code", code))

	if !r.Valid() || r == role.Employee {
		return LoginResponse{}, autherrors.ErrPasswordLoginNotAllowed
	}
	if len([]rune(password)) < validation.PasswordMinLen {
		s.logger.Warn("password login validation failed", zap.String("employee_code", code))
		return LoginResponse{}, autherrors.ErrPasswordTooShort
	}

	emp, err := s.employees.FindByCode(ctx, code)
	if err != nil {
		return LoginResponse{}, s.lookupFailed("password login", err)
	}
	if emp.Role != r || emp.PasswordHash == "" {
		s.logger.Warn("password login role mismatch",
			zap.String("employee_code", code),
			zap.String("login_role", r.String()),
			zap.String("directory_role", emp.Role.String()),
		)
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("password login wrong password", zap.String("employee_code", code))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issue(emp, r)
}

func (s *service) lookupFailed(op string, err error) error {
	if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
		s.logger.Warn(op+" unknown employee")
		return autherrors.ErrInvalidCredentials
	}
	s.logger.Error(op+" lookup failed", zap.Error(err))
	return err
}

func (s *service) issue(emp *employee.Employee, r role.Role) (LoginResponse, error) {
	signed, claims, err := s.tokens.Issue(emp.EmployeeCode, emp.ID.String(), r)
	if err != nil {
		s.logger.Error("issue token failed", zap.String("employee_code", emp.EmployeeCode), zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success",
		zap.String("employee_code", emp.EmployeeCode),
		zap.String("role", r.String()),
	)

	return LoginResponse{
		Role:        r.String(),
		AccessToken: signed,
		IssuedAt:    claims.IssuedAt.Time,
		ExpiresAt:   claims.ExpiresAt.Time,
		Identity:    mapIdentity(emp, r),
	}, nil
}

func mapIdentity(emp *employee.Employee, r role.Role) IdentityResponse {
	id := IdentityResponse{
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.Name,
	}
	switch r {
	case role.Employee, role.HrManager:
		id.Designation = emp.Designation
		id.Department = emp.Department
		id.WhatsAppNumber = emp.WhatsAppNumber
		id.Email = emp.Email
		id.WorkLocation = emp.WorkLocation
	default:
		id.Designation = emp.Designation
		id.Department = emp.Department
		id.Email = emp.Email
	}
	return id
}

func maskNumber(n string) string {
	if len(n) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}
