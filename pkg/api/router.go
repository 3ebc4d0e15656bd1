package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/myhub/pkg/api/handlers"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/device/schema"
	"github.com/urmzd/myhub/pkg/scene"
	"github.com/urmzd/myhub/pkg/telemetry"
)

// Services are the hub components the API exposes.
type Services struct {
	Registry  device.Registry
	Discovery handlers.Discoverer
	Scenes    *scene.Activator
	Telemetry *telemetry.Log
	Validator *schema.Validator
}

// Router holds the Gin engine and dependencies
type Router struct {
	engine   *gin.Engine
	services Services
}

// NewRouter creates a new API router
func NewRouter(services Services) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	if services.Validator == nil {
		services.Validator = schema.NewValidator()
	}

	router := &Router{
		engine:   engine,
		services: services,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes. The hub routes are served at the
// root, as the dashboard expects, and mirrored under /api/v1.
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	if m := r.services.Telemetry.Metrics(); m != nil {
		r.engine.GET("/metrics", gin.WrapH(m.Handler()))
	}

	healthHandler := handlers.NewHealthHandler(r.services.Registry)
	r.engine.GET("/health", healthHandler.Health)

	r.mount(&r.engine.RouterGroup)

	v1 := r.engine.Group("/api/v1")
	v1.GET("/health", healthHandler.Health)
	r.mount(v1)
}

func (r *Router) mount(g *gin.RouterGroup) {
	devicesHandler := handlers.NewDevicesHandler(r.services.Registry)
	controlHandler := handlers.NewControlHandler(r.services.Registry, r.services.Validator)
	discoveryHandler := handlers.NewDiscoveryHandler(r.services.Discovery)

	devices := g.Group("/devices")
	{
		devices.GET("/list", devicesHandler.ListDevices)
		devices.GET("/health", devicesHandler.Health)
		devices.POST("/add", devicesHandler.AddDevice)
		devices.DELETE("/remove/:id", devicesHandler.RemoveDevice)
		devices.GET("/status/:id", devicesHandler.GetDevice)
		devices.GET("/:id", devicesHandler.GetDevice)

		// Device state control
		devices.PUT("/:id/state", controlHandler.SetState)
		devices.POST("/control", controlHandler.Control)

		// Discovery
		devices.GET("/discover", discoveryHandler.Discover)
		devices.GET("/discover/:transport", discoveryHandler.DiscoverTransport)
	}

	scenesHandler := handlers.NewScenesHandler(r.services.Scenes)
	scenes := g.Group("/scenes")
	{
		scenes.GET("/list", scenesHandler.ListScenes)
		scenes.POST("/activate", scenesHandler.ActivateScene)
	}

	telemetryHandler := handlers.NewTelemetryHandler(r.services.Telemetry)
	tel := g.Group("/telemetry")
	{
		tel.GET("/discovery-history", telemetryHandler.DiscoveryHistory)
		tel.GET("/onboarding-history", telemetryHandler.OnboardingHistory)
		tel.GET("/scan-summary", telemetryHandler.ScanSummary)
		tel.POST("/log-discovery", telemetryHandler.LogDiscovery)
		tel.POST("/log-onboarding", telemetryHandler.LogOnboarding)
	}
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
