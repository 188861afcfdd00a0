package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/csk7msd/student-college-allocation-system-dashboard/models"
	"github.com/csk7msd/student-college-allocation-system-dashboard/qr"
	"github.com/csk7msd/student-college-allocation-system-dashboard/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 5 * time.Second
	pingInterval = 30 * time.Second
)

// Organizer serves the organizer side: roster, sessions, QR codes, records.
type Organizer struct {
	svc       *sessions.Service
	publicURL string
	qrSize    int
	upgrader  websocket.Upgrader
}

func NewOrganizer(svc *sessions.Service, publicURL string, qrSize int, allowedOrigins []string) *Organizer {
	return &Organizer{
		svc:       svc,
		publicURL: publicURL,
		qrSize:    qrSize,
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin(allowedOrigins)},
	}
}

// checkInBase is the URL participants of ws are sent to, without query.
func (h *Organizer) checkInBase(ws string) string {
	return fmt.Sprintf("%s/w/%s/checkin", h.publicURL, ws)
}

func (h *Organizer) Workspace(c *gin.Context) {
	ws := workspaceOf(c)
	c.JSON(http.StatusOK, gin.H{"workspace": ws, "checkin_base_url": h.checkInBase(ws)})
}

func (h *Organizer) UploadRoster(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": codeMissingField, "error": "a CSV file with a column named 'ID' is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	preview, err := h.svc.IngestRoster(workspaceOf(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student list uploaded successfully!", "roster": preview})
}

func (h *Organizer) Roster(c *gin.Context) {
	preview, err := h.svc.RosterPreview(workspaceOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *Organizer) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": codeInvalidInput, "error": err.Error()})
		return
	}

	ws := workspaceOf(c)
	created, err := h.svc.CreateSession(ws, req.Name, h.checkInBase(ws))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session": created,
		"qr_url":  qrPath(created.SessionID),
	})
}

func (h *Organizer) ListSessions(c *gin.Context) {
	list, err := h.svc.ListSessions(workspaceOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list})
}

// qrPath carries the session id in the query, since ids keep any character
// of the display name other than spaces.
func qrPath(sessionID string) string {
	return "/organizer/sessions/qr?" + url.Values{qr.SessionParam: {sessionID}}.Encode()
}

// SessionQR renders the share URL of a session as PNG. ?download=1 turns it
// into an attachment named after the session.
func (h *Organizer) SessionQR(c *gin.Context) {
	ws := workspaceOf(c)
	code := c.Query(qr.SessionParam)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": codeMissingField, "error": qr.SessionParam + " is required"})
		return
	}
	session, found, err := h.svc.LookupSession(ws, code)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"code": codeNotFound, "error": "session not found"})
		return
	}

	png, err := qr.PNG(qr.ShareURL(h.checkInBase(ws), session.SessionID), h.qrSize)
	if err != nil {
		respondError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") != "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, session.SessionID+".png"))
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Organizer) Records(c *gin.Context) {
	records, err := h.svc.Records(workspaceOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// LiveFeed streams the attendance records of the workspace over a websocket,
// once on connect and again after every new check-in.
func (h *Organizer) LiveFeed(c *gin.Context) {
	ws := workspaceOf(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[LIVE] failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.svc.Subscribe(ws)
	defer cancel()

	// the feed is one-way; reading only notices the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := h.pushRecords(conn, ws); err != nil {
		log.Printf("[LIVE] feed for %s closed: %v", ws, err)
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-events:
			if err := h.pushRecords(conn, ws); err != nil {
				log.Printf("[LIVE] feed for %s closed: %v", ws, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Organizer) pushRecords(conn *websocket.Conn, ws string) error {
	records, err := h.svc.Records(ws)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(gin.H{"records": records})
}
