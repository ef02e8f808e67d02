package main

import (
	"log"

	"github.com/gin-gonic/gin"
)

// setupFallbackRoutes answers unknown paths. The frontend is served separately.
func setupFallbackRoutes(router *gin.Engine) {
	log.Println("🔧 Frontend is served separately: cd frontend && npm run dev")

	router.NoRoute(func(c *gin.Context) {
		if isAPIPath(c.Request.URL.Path) {
			c.JSON(404, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(200, gin.H{
			"message": "Frontend is running separately",
			"dev_url": "http://localhost:5173",
			"hint":    "Run 'cd frontend && npm run dev' with VITE_API_URL pointing at this server",
		})
	})
}
