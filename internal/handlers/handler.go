package handlers

import (
	"net/http"

	"logsify/internal/logger"
	"logsify/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	sessions *sessionRegistry
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log, sessions: newSessionRegistry()}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Persistent ingestion connection (HTTP upgrade), same port
	router.GET("/ingest", h.ingestStream)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	// One-shot ingestion authenticates with an issuance token, not a JWT.
	api.POST("/logs", h.issuanceTokenMiddleware, h.ingestRecord)

	protected := api.Group("", h.accountIdMiddleware)
	{
		protected.GET("/logs", h.listRecords)
		h.registerTokenRoutes(protected)
	}
}

func (h *Handler) registerTokenRoutes(api *gin.RouterGroup) {
	tokens := api.Group("/tokens")
	{
		tokens.POST("", h.createToken)
		tokens.GET("", h.listTokens)
		tokens.DELETE("/:id", h.deleteToken)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, sessions"
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.sessions.count(),
	})
}
