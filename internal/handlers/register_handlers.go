package handlers

import (
	"net/http"

	"github.com/SscSPs/packhouse_portal/cmd/docs"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// PublicPrefixes are the paths the route proxy leaves alone.
var PublicPrefixes = []string{"/health", "/metrics", "/swagger", "/auth/", SignUpPath}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// The route proxy must already be installed on r; the per-route guards run behind it.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	manager *middleware.SessionManager,
	metricsHandler http.Handler,
) {
	r.GET("/health", getHealth)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}
	r.GET("/", getHome)

	registerAuthRoutes(r, NewAuthHandler(services, manager, cfg), cfg.LoginRateLimit)
	registerGoogleOAuthRoutes(r, NewGoogleOAuthHandler(services, manager))

	registerDashboardRoutes(r, manager)
	registerGrowersRoutes(r, manager, services.WorkItem)
	registerQualityControlRoutes(r, manager, services.WorkItem)
	registerManagementRoutes(r, manager, services.WorkItem)
	registerWorkItemRoutes(r, manager, services.WorkItem)
	registerAdminRoutes(r, manager, services.AdminUser)
	registerSettingsRoutes(r, manager, services.Settings)

	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
