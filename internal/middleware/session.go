package middleware

import (
	"github.com/gin-gonic/gin"

	"civicbudget/internal/uuid"
)

const (
	// SessionHeader carries the anonymous visitor key used for random ordering.
	SessionHeader = "X-Session-ID"
	// SessionKey is the gin context key holding the session key.
	SessionKey = "sessionKey"
)

// Session reads the visitor's session key, issuing a fresh UUIDv7 when the
// header is missing, malformed or of a version this service never issues,
// and echoes it back in the response.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := issuedKey(c.GetHeader(SessionHeader))
		if !ok {
			key = uuid.New()
		}
		c.Set(SessionKey, key)
		c.Writer.Header().Set(SessionHeader, key)
		c.Next()
	}
}

// issuedKey normalizes raw when it is a key uuid.New could have produced.
func issuedKey(raw string) (string, bool) {
	if !uuid.IsValid(raw) {
		return "", false
	}
	if v := uuid.Version(raw); v != 7 && v != 4 {
		return "", false
	}
	key, err := uuid.Parse(raw)
	return key, err == nil
}
