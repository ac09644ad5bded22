package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"invoicedesk/internal/config"
	"invoicedesk/internal/handler"
	"invoicedesk/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	reviewH *handler.ReviewHandler,
	validationH *handler.ValidationHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(cfg.Log.Level == "debug"))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(&cfg.JWT))

	v1.GET("/fields", validationH.Fields)
	v1.POST("/validate", validationH.Validate)

	docs := v1.Group("/documents")
	docs.POST("", reviewH.Upload)
	docs.GET("", reviewH.List)
	docs.GET("/export", reviewH.ExportList)
	docs.GET("/:id", reviewH.GetByID)
	docs.DELETE("/:id", reviewH.Delete)
	docs.PUT("/:id/fields", reviewH.UpdateFields)
	docs.POST("/:id/revalidate", reviewH.Revalidate)
	docs.POST("/:id/reextract", reviewH.Reextract)
	docs.GET("/:id/validation", reviewH.Validation)
	docs.POST("/:id/accept", reviewH.Accept)
	docs.GET("/:id/download", reviewH.Download)
	docs.GET("/:id/export", reviewH.Export)
	docs.GET("/:id/history", reviewH.History)

	return r
}
