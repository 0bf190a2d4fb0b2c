package middleware

import (
	"go-leave/internal/role"

	"github.com/gin-gonic/gin"
)

// Actor is the authenticated caller as established by AuthMiddleware.
type Actor struct {
	EmployeeCode string
	EmployeeID   string
	Role         role.Role
}

func ActorFromContext(c *gin.Context) (Actor, bool) {
	code := c.GetString(ContextEmployeeCode)
	r := role.Role(c.GetString(ContextRole))
	if code == "" || !r.Valid() {
		return Actor{}, false
	}
	return Actor{
		EmployeeCode: code,
		EmployeeID:   c.GetString(ContextEmployeeID),
		Role:         r,
	}, true
}
