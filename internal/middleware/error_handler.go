package middleware

import (
	"net/http"
	"time"

	"adetta/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var internalError = apierror.WithCode("internal", "internal server error")

// requestEvent tags ev with the fields every request log line shares.
func requestEvent(c *gin.Context, ev *zerolog.Event) *zerolog.Event {
	return ev.
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("route", c.FullPath())
}

// ErrorHandler logs every error a handler attached with c.Error. The client
// only ever sees the envelope the handler wrote, or a generic 500 if none was.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			requestEvent(c, log.Error()).Err(e.Err).Msg("handler error")
		}
		if len(c.Errors) > 0 && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, internalError)
		}
	}
}

// Recovery turns a panic into a 500 with the generic envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			requestEvent(c, log.Error()).Interface("panic", r).Msg("panic")
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError)
				return
			}
			c.Abort()
		}()
		c.Next()
	}
}

// Logger writes one line per request. Health probes log at debug level,
// server errors at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Warn()
		case c.FullPath() == "/health":
			ev = log.Debug()
		default:
			ev = log.Info()
		}
		requestEvent(c, ev).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Str("client_ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
