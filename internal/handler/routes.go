package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the order API under /api. Placing an order is public;
// everything else needs a staff token.
func RegisterRoutes(router *gin.Engine, h *OrderHandler, requireAuth gin.HandlerFunc) {
	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.POST("/orders", h.CreateOrder)

		staff := api.Group("/orders", requireAuth)
		staff.GET("", h.ListOrders)
		staff.GET("/:id", h.GetOrder)
		staff.PATCH("/:id/status", h.UpdateStatus)
		staff.PATCH("/:id/cancel", h.CancelOrder)
	}

	router.NoRoute(h.NotFound)
}
