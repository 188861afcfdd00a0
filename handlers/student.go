package handlers

import (
	"fmt"
	"net/http"

	"github.com/csk7msd/student-college-allocation-system-dashboard/models"
	"github.com/csk7msd/student-college-allocation-system-dashboard/qr"
	"github.com/csk7msd/student-college-allocation-system-dashboard/sessions"
	"github.com/gin-gonic/gin"
)

const unknownSessionName = "Unknown Session"

// Participant serves the pages reached through a session's QR code.
type Participant struct {
	svc *sessions.Service
}

func NewParticipant(svc *sessions.Service) *Participant {
	return &Participant{svc: svc}
}

// CheckInForm returns what the participant form shows, plus the token the
// form must send back.
func (h *Participant) CheckInForm(c *gin.Context) {
	code := c.Query(qr.SessionParam)
	if code == "" {
		respondError(c, sessions.ErrInvalidSession)
		return
	}

	session, found, err := h.svc.LookupSession(workspaceOf(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	name := session.DisplayName
	if !found {
		name = unknownSessionName
	}

	fence := h.svc.Fence()
	c.JSON(http.StatusOK, gin.H{
		"session_id":    code,
		"session_name":  name,
		"session_token": code,
		"found":         found,
		"radius_km":     fence.RadiusKM,
	})
}

func (h *Participant) CheckIn(c *gin.Context) {
	code := c.Query(qr.SessionParam)
	if code == "" {
		respondError(c, sessions.ErrInvalidSession)
		return
	}

	var req models.CheckInRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", sessions.ErrInvalidInput, err))
		return
	}

	result, err := h.svc.CheckIn(workspaceOf(c), code, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Participant) Attendance(c *gin.Context) {
	pid := c.Param("participant")
	pct, err := h.svc.Percentage(workspaceOf(c), pid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participant_id": pid, "percentage": pct})
}
