package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devpath-labs/devpath/internal/auth"
)

const sessionKey = "session"

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

// requireAdmin rejects requests without a valid admin session.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		sess, ok := s.auth.Verify(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		if sess.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// clientID identifies the caller for assistant conversations. A valid
// session wins; anonymous learners may pass X-Client-ID.
func (s *Server) clientID(c *gin.Context) string {
	if token := bearerToken(c); token != "" {
		if sess, ok := s.auth.Verify(token); ok {
			return sess.UserID
		}
	}
	if id := c.GetHeader("X-Client-ID"); id != "" {
		return id
	}
	return "anonymous"
}

// session returns the verified session set by requireAdmin.
func session(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	sess, ok := v.(auth.Session)
	return sess, ok
}
