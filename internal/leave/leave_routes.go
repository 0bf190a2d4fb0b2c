package leave

import (
	"time"

	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/role"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	PathSubmit       = "/submit-leave-application"
	PathListPending  = "/get-pending-leaves"
	PathChangeStatus = "/change-leave-application-status"
)

type RouteDeps struct {
	Tokens         middleware.TokenParser
	RBAC           middleware.RBACService
	Redis          *redis.Client
	IdempotencyTTL time.Duration
	WorkflowRate   rate.Limit
	WorkflowBurst  int
	Logger         *zap.Logger
}

func RegisterRoutes(r gin.IRouter, handler *Handler, deps RouteDeps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}
	limit := middleware.RateLimitByEmployee(deps.WorkflowRate, deps.WorkflowBurst)

	for _, rl := range role.All() {
		g := r.Group("/"+rl.PathPrefix(),
			middleware.AuthMiddleware(deps.Tokens),
			middleware.RoleMiddleware(rl),
			middleware.ContextLogger(logger),
			limit,
		)

		if rl.CanSubmit() {
			g.POST(PathSubmit,
				middleware.RBACAuthorize(deps.RBAC, rbac.ResourceLeave, rbac.ActionSubmit),
				middleware.Idempotency(deps.Redis, deps.IdempotencyTTL, logger),
				handler.Submit,
			)
		}
		if rl.CanApprove() {
			g.GET(PathListPending,
				middleware.RBACAuthorize(deps.RBAC, rbac.ResourceLeave, rbac.ActionListPending),
				handler.ListPending,
			)
			g.PUT(PathChangeStatus,
				middleware.RBACAuthorize(deps.RBAC, rbac.ResourceLeave, rbac.ActionSetStatus),
				handler.ChangeStatus,
			)
		}
	}
}
