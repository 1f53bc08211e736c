package middleware

import "github.com/gin-gonic/gin"

// NoStore disables response caching. The dashboard clients always want the
// freshest simulated state; a cached list defeats the polling loop.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
