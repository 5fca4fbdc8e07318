package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes mounts the document management endpoints on an
// admin-guarded group.
func RegisterAdminRoutes(g *gin.RouterGroup, h *Handler) {
	g.PUT("/units/:unit/prices", h.SavePrices)
}
