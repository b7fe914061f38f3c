package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/you/identitysvc/internal/http/handlers"
	"github.com/you/identitysvc/internal/http/middleware"
)

// RouterDeps are the handlers and middleware the router mounts
type RouterDeps struct {
	Identity     *handlers.IdentityHandlers
	Verification *handlers.VerificationHandlers
	JWT          *middleware.AuthMW
	Casbin       *middleware.CasbinMW
	Metrics      *middleware.HTTPMetrics
	Gatherer     prometheus.Gatherer
	Logger       *zap.Logger
}

// BuildRouter wires every route
func BuildRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.Logger), d.Metrics.Handler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, handlers.APIResponse{Status: "success", Message: "ok", StatusCode: http.StatusOK})
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	users := r.Group("/users")
	users.POST("/signup", d.Identity.SignUp)
	users.POST("/signin", d.Identity.SignIn)

	protected := r.Group("/").Use(d.JWT.WithJWT(), d.Casbin.Enforce())
	protected.GET("/users/me", d.Identity.Me)
	protected.POST("/verification/email", d.Verification.SendEmail)
	protected.POST("/verification/email/check", d.Verification.CheckEmail)

	return r
}
