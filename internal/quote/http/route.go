package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/quote", h.Quote)
	g.GET("/availability", h.Availability)
}
