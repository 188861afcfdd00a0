package handlers

import (
	"log"
	"net/http"
	"net/url"

	ginSessions "github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const workspaceKey = "workspace"

// organizerWorkspace pins the caller to a workspace, issuing a fresh one on
// the first visit. Everything an organizer creates is scoped to it.
func organizerWorkspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := ginSessions.Default(c)
		ws, _ := session.Get(workspaceKey).(string)
		if ws == "" {
			ws = uuid.NewString()
			session.Set(workspaceKey, ws)
			if err := session.Save(); err != nil {
				log.Printf("[WORKSPACE] failed to save session: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": codeInternal, "error": "could not start workspace"})
				return
			}
			log.Println("[WORKSPACE] issued", ws)
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

// participantWorkspace takes the workspace from the share URL path.
func participantWorkspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := c.Param(workspaceKey)
		if _, err := uuid.Parse(ws); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"code": codeInvalidSession, "error": "unknown workspace"})
			return
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

func workspaceOf(c *gin.Context) string {
	return c.GetString(workspaceKey)
}

// checkOrigin accepts same-host requests, requests without an Origin header
// and the configured origins.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
