package payconfig

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	configs := r.Group("/configurations")
	{
		configs.GET("", handler.GetAllConfigs)
		configs.GET("/:type", handler.GetConfigsByType)
		configs.GET("/:type/:key", handler.GetConfig)
		configs.PUT("", handler.UpdateConfig)
	}
}
