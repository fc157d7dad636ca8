package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Health reports liveness plus whether the load dataset is reachable.
func Health(loadsFile string) gin.HandlerFunc {
	return func(c *gin.Context) {
		dataset := "ok"
		if _, err := os.Stat(loadsFile); err != nil {
			dataset = "unavailable"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "load_data": dataset})
	}
}

// Routes lists the routes registered on r.
func Routes(r *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := r.Routes()
		out := make([]gin.H, 0, len(routes))
		for _, rt := range routes {
			out = append(out, gin.H{
				"method":  rt.Method,
				"path":    rt.Path,
				"handler": rt.Handler,
			})
		}
		c.JSON(http.StatusOK, gin.H{"routes": out})
	}
}
