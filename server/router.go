package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register installs the service routes on r.
func Register(r *gin.Engine, h *Handler) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/test", h.Test)

	r.GET("/", h.Index)
	r.GET("/list", h.List)
	r.POST("/add", h.Add)
	r.POST("/remove", h.Remove)
	r.GET("/view", h.View)
	r.POST("/stop", h.Stop)

	assets := r.Group("/assets")
	{
		assets.PUT("/:kind", h.PutAsset)
		assets.GET("/:kind", h.GetAsset)
	}
}
