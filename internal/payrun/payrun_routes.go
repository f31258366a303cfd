package payrun

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	payroll := r.Group("/payroll")
	{
		payroll.POST("/calculate", handler.CalculatePayroll)
		payroll.POST("/batch", handler.CalculateBatchPayroll)
		payroll.POST("/thirteenth-month", handler.CalculateThirteenthMonth)
	}
}
