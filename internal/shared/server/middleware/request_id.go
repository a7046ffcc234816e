package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	requestIDKey    = "requestId"
	requestIDHeader = "X-Request-Id"
)

// RequestID tags every request with an ID for log correlation. A caller's
// X-Request-Id is honored so IDs stay stable across the SPA and the API;
// otherwise a fresh one is minted. The ID is echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = newRequestID()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext returns the ID set by RequestID, or "" when the
// middleware did not run.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	id, _ := c.Value(requestIDKey).(string)
	return id
}

// newRequestID mints a random 128-bit hex ID. A timestamp stands in on the
// off chance the random source fails.
func newRequestID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return strconv.FormatInt(time.Now().UTC().UnixNano(), 16)
	}
	return hex.EncodeToString(buf[:])
}
