package middleware

import (
	"net/http"

	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service without importing it.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := c.GetString(ContextRole)
		if r == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context")
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     r,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Abort(c, apperror.ErrInternal.HTTPStatus, apperror.ErrInternal.Code, apperror.ErrInternal.Message)
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, response.ApiEnvelope{
				Ok:      false,
				Message: apperror.ErrForbidden.Message,
				Error: &response.ErrorBody{
					Code:    apperror.CodeForbidden,
					Message: apperror.ErrForbidden.Message,
					Details: gin.H{"required": resource + ":" + action},
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
