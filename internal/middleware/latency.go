package middleware

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
)

// Latency delays each request by a uniform duration in [min, max) to
// exercise the dashboard's loading and race-handling paths. The delay is
// abandoned as soon as the client cancels; the handler chain is aborted in
// that case since nobody is listening for the response.
func Latency(min, max time.Duration) gin.HandlerFunc {
	span := max - min
	return func(c *gin.Context) {
		delay := min
		if span > 0 {
			delay += time.Duration(rand.Int63n(int64(span)))
		}

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			c.Next()
		case <-c.Request.Context().Done():
			c.Abort()
		}
	}
}
