package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/contentdesk/affkit/internal/reqctx"
)

// APIKeyHeader carries a per-request SerpApi key.
const APIKeyHeader = "X-SerpApi-Key"

// loopbackOrigins are allowed when no origins are configured.
var loopbackOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// CORS allows browser front ends on origins to call the API. A "*" entry
// allows any origin; wildcards such as "http://localhost:*" are accepted.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = loopbackOrigins
	}
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", APIKeyHeader, reqctx.Header},
		ExposeHeaders: []string{reqctx.Header},
		AllowWildcard: true,
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// RequestID attaches a request context, reusing the client's X-Request-ID
// when present, and echoes the ID back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := reqctx.WithRequestContext(c.Request.Context(), c.GetHeader(reqctx.Header))
		c.Request = c.Request.WithContext(ctx)
		c.Header(reqctx.Header, reqctx.GetRequestContext(ctx).RequestID)
		c.Next()
	}
}

// Logger logs one line per request with the request ID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger := reqctx.Logger(c.Request.Context())
		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Int("size", c.Writer.Size()).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	}
}
