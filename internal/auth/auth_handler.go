package auth

import (
	"net/http"

	"go-leave/internal/role"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("login failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) EmployeeLogin(c *gin.Context) {
	var req EmployeeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
		return
	}

	resp, err := h.service.LoginEmployee(c.Request.Context(), req.WhatsAppNumber)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// PasswordLogin serves the login endpoint of every role that signs in
// with an employee code and password.
func (h *Handler) PasswordLogin(r role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PasswordLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := apperror.MapValidationError(err)
			response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
			return
		}

		resp, err := h.service.LoginWithPassword(c.Request.Context(), r, req.EmployeeCode, req.Password)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}

		response.Success(c, http.StatusOK, resp, nil)
	}
}
