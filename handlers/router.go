package handlers

import (
	"net/http"
	"strings"

	"github.com/csk7msd/student-college-allocation-system-dashboard/allocation"
	"github.com/csk7msd/student-college-allocation-system-dashboard/config"
	"github.com/csk7msd/student-college-allocation-system-dashboard/sessions"
	"github.com/gin-contrib/cors"
	ginSessions "github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const cookieName = "qr_attendance"

func NewAttendanceRouter(cfg *config.Config, svc *sessions.Service) *gin.Engine {
	router := gin.Default()
	useCORS(router, cfg.CORSOrigins)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(ginSessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.PublicURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(ginSessions.Sessions(cookieName, store))

	router.GET("/healthz", healthz)

	organizer := NewOrganizer(svc, cfg.PublicURL, cfg.QRSize, cfg.CORSOrigins)
	org := router.Group("/organizer", organizerWorkspace())
	org.GET("/workspace", organizer.Workspace)
	org.POST("/roster", organizer.UploadRoster)
	org.GET("/roster", organizer.Roster)
	org.POST("/sessions", organizer.CreateSession)
	org.GET("/sessions", organizer.ListSessions)
	org.GET("/sessions/qr", organizer.SessionQR)
	org.GET("/records", organizer.Records)
	org.GET("/live", organizer.LiveFeed)

	participant := NewParticipant(svc)
	part := router.Group("/w/:workspace", participantWorkspace())
	part.GET("/checkin", participant.CheckInForm)
	part.POST("/checkin", participant.CheckIn)
	part.GET("/attendance/:participant", participant.Attendance)

	return router
}

func NewAllocationRouter(cfg *config.Config, table *allocation.Table) *gin.Engine {
	router := gin.Default()
	useCORS(router, cfg.CORSOrigins)

	router.GET("/healthz", healthz)

	h := NewAllocation(table)
	router.GET("/allocations", h.Lookup)
	router.GET("/allocations/:uid/download", h.Download)

	return router
}

func useCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		return
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
