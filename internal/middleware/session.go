package middleware

import (
	"net/http"
	"strings"

	"adetta/internal/apierror"
	"adetta/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const SessionKey = "session"

// Session is built fresh for every request; nothing about authentication is
// kept in process-wide state.
type Session struct {
	Authenticated bool
}

// SessionGate attaches a Session to the request. With the gate disabled every
// session is authenticated; otherwise a valid Bearer session token is required
// for Authenticated to be true.
func SessionGate(secret string, gateEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := &Session{Authenticated: !gateEnabled}
		if gateEnabled {
			s.Authenticated = validSessionToken(c.GetHeader("Authorization"), secret)
		}
		c.Set(SessionKey, s)
		c.Next()
	}
}

// RequireSession rejects requests whose session did not pass the gate.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s := GetSession(c); s == nil || !s.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}
		c.Next()
	}
}

// GetSession returns the request's session, or nil outside SessionGate.
func GetSession(c *gin.Context) *Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

func validSessionToken(header, secret string) bool {
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	return err == nil && token.Valid && claims.Subject == service.SessionSubject
}
