package routes

import (
	"time"

	"voyago/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig returns the shared CORS policy for all route groups.
func CORSConfig() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// RegisterCatalogRoutes registers the administrative catalog endpoints.
func RegisterCatalogRoutes(r *gin.Engine, catalog *handlers.CatalogHandler) {
	api := r.Group("/api/catalog")
	{
		api.POST("/offerings", catalog.CreateOffering)
		api.PUT("/offerings/:id/publish", catalog.PublishOffering)
		api.GET("/offerings/:id/units", catalog.ListInventory)
		api.POST("/units", catalog.CreateInventoryUnit)
		api.POST("/promotions", catalog.CreatePromotion)
	}
}
