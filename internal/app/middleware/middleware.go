package middleware

import (
	"github.com/gin-gonic/gin"
)

// deviceIDHeader identifies the installing device for preference
// persistence. There are no user accounts; this is the only identity the
// service knows.
const deviceIDHeader = "X-Device-ID"

const deviceIDKey = "device_id"

// CORSMiddleware handles CORS headers for the mobile client.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Device-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// DeviceIDMiddleware copies the device header into the gin context so
// handlers don't reach into raw headers.
func DeviceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(deviceIDHeader); id != "" {
			c.Set(deviceIDKey, id)
		}
		c.Next()
	}
}

// GetDeviceIDFromContext extracts the device id, or "" when the client
// didn't send one.
func GetDeviceIDFromContext(c *gin.Context) string {
	if id, exists := c.Get(deviceIDKey); exists {
		if idStr, ok := id.(string); ok {
			return idStr
		}
	}
	return ""
}
