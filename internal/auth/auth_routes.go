package auth

import (
	"go-leave/internal/middleware"
	"go-leave/internal/role"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RouteConfig struct {
	LoginRate  rate.Limit
	LoginBurst int
}

func RegisterRoutes(r gin.IRouter, handler *Handler, cfg RouteConfig) {
	limit := middleware.RateLimitByIP(cfg.LoginRate, cfg.LoginBurst)

	r.POST("/"+role.Employee.PathPrefix()+"/login", limit, handler.EmployeeLogin)
	for _, rl := range []role.Role{role.HR, role.Manager, role.Partner, role.HrManager} {
		r.POST("/"+rl.PathPrefix()+"/login", limit, handler.PasswordLogin(rl))
	}
}
