package api

import (
	stdhttp "net/http"

	intconfig "freightdesk/internal/config"
	h "freightdesk/internal/http/handlers"
	"freightdesk/internal/http/middleware"
	"freightdesk/internal/metrics"
	"freightdesk/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles the request handlers' collaborators.
type Services struct {
	Carriers services.CarrierService
	Loads    services.LoadService
	Docs     services.DocsService
}

func NewRouter(env intconfig.Env, log *zap.Logger, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log), middleware.CORS(env.CORSAllowedOrigins))
	if env.MetricsEnabled {
		r.Use(metrics.Handler())
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success":    false,
			"detail":     "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	if env.MetricsEnabled {
		r.GET("/metrics", metrics.Exposer())
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health(env.LoadsFile()))
		api.GET("/routes", h.Routes(r))

		v1 := api.Group("/v1")

		carriers := v1.Group("/carriers")
		carriers.GET("/validate/:mc_number", h.CarrierHandler{Svc: svc.Carriers}.Validate)

		loads := v1.Group("/loads")
		loads.GET("/:reference_number", h.LoadHandler{Svc: svc.Loads}.Get)
		loads.GET("/:reference_number/rate-confirmation", h.DocsHandler{Svc: svc.Docs}.RateConfirmation)
	}

	return r
}
