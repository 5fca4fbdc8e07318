package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterFeedRoute mounts the public calendar feed outside the versioned
// API so external platforms get a stable URL.
func RegisterFeedRoute(r gin.IRouter, h *Handler) {
	r.GET("/calendar/:unit", h.Feed)
}

// RegisterAdminRoutes mounts the import management endpoints on an
// admin-guarded group.
func RegisterAdminRoutes(g *gin.RouterGroup, h *Handler) {
	g.POST("/units/:unit/pull", h.Pull)
	g.GET("/units/:unit/feeds/:platform", h.FeedState)
}
