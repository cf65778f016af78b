package api

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	log "github.com/sirupsen/logrus"
	"net/http"
	"strings"
	"time"
)

const (
	sessionKey = "session"
	tokenKey   = "token"
)

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(started).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request handled")
	}
}

// requireSession resolves the bearer token into a role-bearing session and
// aborts before any handler runs when that is not possible.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortWithError(c, models.ErrUnauthenticated)
			return
		}

		principal, err := s.deps.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		session, err := s.deps.Sessions.Resolve(c.Request.Context(), *principal)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(tokenKey, token)
		c.Set(sessionKey, *session)
		c.Next()
	}
}

// limitAuth rate limits an auth route per client address.
func (s *Server) limitAuth(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.authLimiters.allow(route + "|" + c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentSession(c *gin.Context) models.Session {
	return c.MustGet(sessionKey).(models.Session)
}
