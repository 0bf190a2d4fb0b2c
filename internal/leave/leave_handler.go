package leave

import (
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActor(c *gin.Context) (Actor, bool) {
	a, ok := middleware.ActorFromContext(c)
	if !ok {
		return Actor{}, false
	}
	return Actor{EmployeeCode: a.EmployeeCode, Role: a.Role}, true
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	log := contextutil.GetLogger(c.Request.Context(), h.logger)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		log.Error("leave request failed", append(fields, zap.Error(err))...)
	} else {
		log.Warn("leave request failed", fields...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	appErr := apperror.MapValidationError(err)
	h.logger.Warn("leave request validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}
	h.logger.Debug("http submit leave", zap.String("employee_code", actor.EmployeeCode), zap.String("role", actor.Role.String()))

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Set(middleware.IdempotencyResultKey, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListPending(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.ListPending(c.Request.Context(), actor, c.Query("employeeCode"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(int64(len(resp)), 1, len(resp))
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.SetStatus(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
