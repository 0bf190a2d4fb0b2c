package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	employeeMock "go-leave/internal/employee/mock"
	"go-leave/internal/role"
	"go-leave/internal/shared/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)

func newTokens() *token.Manager {
	return token.NewManager("unit-test-secret", time.Hour).WithClock(func() time.Time { return fixedNow })
}

func TestService_LoginEmployee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := employeeMock.NewMockRepository(ctrl)
	ctx := context.Background()

	emp := &employee.Employee{
		ID:             uuid.New(),
		EmployeeCode:   "EMP001",
		Name:           "Asha Rao",
		Role:           role.Employee,
		Designation:    "Analyst",
		Department:     "Audit",
		WhatsAppNumber: "+919147389854",
		Email:          "asha@example.com",
		WorkLocation:   "Kolkata",
	}

	t.Run("success", func(t *testing.T) {
		tokens := newTokens()
		svc := auth.NewService(mockRepo, tokens)

		mockRepo.EXPECT().
			FindByWhatsAppNumber(ctx, "+919147389854").
			Return(emp, nil)

		resp, err := svc.LoginEmployee(ctx, " +919147389854 ")
		require.NoError(t, err)
		assert.Equal(t, "EMPLOYEE", resp.Role)
		assert.Equal(t, fixedNow, resp.IssuedAt)
		assert.Equal(t, fixedNow.Add(time.Hour), resp.ExpiresAt)
		assert.Equal(t, "EMP001", resp.Identity.EmployeeCode)
		assert.Equal(t, "Kolkata", resp.Identity.WorkLocation)

		claims, err := tokens.Parse(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "EMP001", claims.EmployeeCode)
		assert.Equal(t, role.Employee, claims.Role)
	})

	t.Run("negative invalid number format", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		_, err := svc.LoginEmployee(ctx, "12345")
		assert.ErrorIs(t, err, autherrors.ErrInvalidWhatsAppNumber)
	})

	t.Run("negative unknown number", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		mockRepo.EXPECT().
			FindByWhatsAppNumber(ctx, "+910000000000").
			Return(nil, employeeerrors.ErrEmployeeNotFound)

		_, err := svc.LoginEmployee(ctx, "+910000000000")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative directory role is not employee", func(t *testing.T) {
		partner := *emp
		partner.Role = role.Partner
		svc := auth.NewService(mockRepo, newTokens())
		mockRepo.EXPECT().
			FindByWhatsAppNumber(ctx, "+919147389854").
			Return(&partner, nil)

		_, err := svc.LoginEmployee(ctx, "+919147389854")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative lookup infrastructure error", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		mockRepo.EXPECT().
			FindByWhatsAppNumber(ctx, "+919147389854").
			Return(nil, errors.New("db down"))

		_, err := svc.LoginEmployee(ctx, "+919147389854")
		assert.EqualError(t, err, "db down")
	})
}

func TestService_LoginWithPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := employeeMock.NewMockRepository(ctrl)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("partner-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	partner := &employee.Employee{
		ID:           uuid.New(),
		EmployeeCode: "PTR001",
		Name:         "Vikram Sen",
		Role:         role.Partner,
		Email:        "vikram@example.com",
		PasswordHash: string(hash),
	}

	t.Run("success", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		mockRepo.EXPECT().FindByCode(ctx, "PTR001").Return(partner, nil)

		resp, err := svc.LoginWithPassword(ctx, role.Partner, "PTR001", "partner-pass")
		require.NoError(t, err)
		assert.Equal(t, "PARTNER", resp.Role)
		assert.Equal(t, "Vikram Sen", resp.Identity.Name)
		assert.Empty(t, resp.Identity.WhatsAppNumber)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		mockRepo.EXPECT().FindByCode(ctx, "PTR001").Return(partner, nil)

		_, err := svc.LoginWithPassword(ctx, role.Partner, "PTR001", "wrong-pass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative role mismatch", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		mockRepo.EXPECT().FindByCode(ctx, "PTR001").Return(partner, nil)

		_, err := svc.LoginWithPassword(ctx, role.Manager, "PTR001", "partner-pass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative short password", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		_, err := svc.LoginWithPassword(ctx, role.Partner, "PTR001", "abcd")
		assert.ErrorIs(t, err, autherrors.ErrPasswordTooShort)
	})

	t.Run("negative employee role uses whatsapp", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		_, err := svc.LoginWithPassword(ctx, role.Employee, "EMP001", "whatever")
		assert.ErrorIs(t, err, autherrors.ErrPasswordLoginNotAllowed)
	})

	t.Run("negative unknown code", func(t *testing.T) {
		svc := auth.NewService(mockRepo, newTokens())
		mockRepo.EXPECT().FindByCode(ctx, "NOPE").Return(nil, employeeerrors.ErrEmployeeNotFound)

		_, err := svc.LoginWithPassword(ctx, role.Partner, "NOPE", "partner-pass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}
