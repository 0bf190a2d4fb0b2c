package middleware

import (
	"errors"
	"strings"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/role"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"
	"go-leave/internal/shared/token"

	"github.com/gin-gonic/gin"
)

const (
	ContextEmployeeCode = "employee_code"
	ContextEmployeeID   = "employee_id"
	ContextRole         = "role"
)

type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenMissing)
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, token.ErrExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		c.Set(ContextEmployeeCode, claims.EmployeeCode)
		c.Set(ContextEmployeeID, claims.EmployeeID)
		c.Set(ContextRole, string(claims.Role))

		ctx := contextutil.WithEmployeeCode(c.Request.Context(), claims.EmployeeCode)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware rejects tokens issued for any role outside allowed. A
// partner token can never reach a manager route, even for the same person.
func RoleMiddleware(allowed ...role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := role.Role(c.GetString(ContextRole))
		for _, r := range allowed {
			if current == r {
				c.Next()
				return
			}
		}
		abortWith(c, autherrors.ErrForbidden)
	}
}

func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Abort(c, httpErr.Status, httpErr.Code, httpErr.Message)
}
