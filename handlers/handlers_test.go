package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/csk7msd/student-college-allocation-system-dashboard/config"
	"github.com/csk7msd/student-college-allocation-system-dashboard/database"
	"github.com/csk7msd/student-college-allocation-system-dashboard/geofence"
	"github.com/csk7msd/student-college-allocation-system-dashboard/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		PublicURL:       "http://attendance.test",
		SessionSecret:   "test-secret-0123456789",
		TargetLatitude:  18.88132,
		TargetLongitude: 77.91965,
		AllowedRadiusKM: 0.5,
		QRSize:          128,
	}
}

func newAttendanceRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := testConfig()
	store, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	fence := geofence.Fence{
		Target:   geofence.Point{Latitude: cfg.TargetLatitude, Longitude: cfg.TargetLongitude},
		RadiusKM: cfg.AllowedRadiusKM,
	}
	return NewAttendanceRouter(cfg, sessions.NewService(store, fence, sessions.NewBroker()))
}

// client replays the cookies it is given, like a browser would.
type client struct {
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newClient(router http.Handler) *client {
	return &client{router: router, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return c.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) postJSON(t *testing.T, target string, body any) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return c.do(t, req)
}

func (c *client) upload(t *testing.T, target, csv string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "students.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, csv)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(t, req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type createdSession struct {
	Session struct {
		SessionID   string `json:"session_id"`
		DisplayName string `json:"display_name"`
		URL         string `json:"url"`
	} `json:"session"`
	QRURL string `json:"qr_url"`
}

func createSession(t *testing.T, org *client, name string) createdSession {
	t.Helper()
	rec := org.postJSON(t, "/organizer/sessions", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out createdSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// checkInTarget turns a share URL into a request target on the test router.
func checkInTarget(t *testing.T, shareURL string) string {
	t.Helper()
	u, err := url.Parse(shareURL)
	require.NoError(t, err)
	return u.RequestURI()
}

func atTarget(name, pid, token string) gin.H {
	return gin.H{
		"name":           name,
		"participant_id": pid,
		"latitude":       18.88132,
		"longitude":      77.91965,
		"session_token":  token,
	}
}

func TestAttendanceFlow(t *testing.T) {
	router := newAttendanceRouter(t)
	org := newClient(router)

	rec := org.get(t, "/organizer/workspace")
	require.Equal(t, http.StatusOK, rec.Code)
	ws := decode(t, rec)["workspace"].(string)
	require.NotEmpty(t, ws)

	rec = org.upload(t, "/organizer/roster", "ID,Name\nS1,Asha\nS2,Ravi\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	created := createSession(t, org, "Introduction to Python")
	assert.Equal(t, "session_introduction_to_python_1", created.Session.SessionID)
	assert.Equal(t,
		fmt.Sprintf("http://attendance.test/w/%s/checkin?session_code=session_introduction_to_python_1", ws),
		created.Session.URL)

	student := newClient(router)
	target := checkInTarget(t, created.Session.URL)

	rec = student.get(t, target)
	require.Equal(t, http.StatusOK, rec.Code)
	form := decode(t, rec)
	assert.Equal(t, "Introduction to Python", form["session_name"])
	token := form["session_token"].(string)

	rec = student.postJSON(t, target, atTarget("Asha", "S1", token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode(t, rec)
	assert.Equal(t, "checked_in", res["status"])
	assert.Equal(t, 100.0, res["percentage"])

	rec = student.postJSON(t, target, atTarget("Asha", "S1", token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "already_checked_in", decode(t, rec)["status"])

	createSession(t, org, "Lab")

	rec = student.get(t, fmt.Sprintf("/w/%s/attendance/S1", ws))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50.0, decode(t, rec)["percentage"])

	rec = org.get(t, "/organizer/records")
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode(t, rec)["records"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "Introduction to Python", records[0].(map[string]any)["session_name"])
}

func TestCheckInErrors(t *testing.T) {
	router := newAttendanceRouter(t)
	org := newClient(router)

	rec := org.upload(t, "/organizer/roster", "ID\nS1\nS2\n")
	require.Equal(t, http.StatusOK, rec.Code)
	created := createSession(t, org, "Intro")
	target := checkInTarget(t, created.Session.URL)
	code := created.Session.SessionID
	student := newClient(router)

	rec = student.postJSON(t, target, atTarget("Vik", "S9", code))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ROSTER_MISMATCH", decode(t, rec)["code"])

	rec = student.postJSON(t, target, atTarget("", "S1", code))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_FIELD", decode(t, rec)["code"])

	far := atTarget("Asha", "S1", code)
	far["latitude"], far["longitude"] = 18.90, 77.95
	rec = student.postJSON(t, target, far)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "OUT_OF_RANGE", body["code"])
	assert.Greater(t, body["distance_km"].(float64), 0.5)
	assert.Contains(t, body["error"], fmt.Sprintf("%.2f km", body["distance_km"].(float64)))

	bad := atTarget("Asha", "S1", code)
	bad["latitude"] = 95.0
	rec = student.postJSON(t, target, bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, rec)["code"])

	rec = student.postJSON(t, target, atTarget("Asha", "S1", "session_forged_1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_SESSION", decode(t, rec)["code"])

	rec = org.get(t, "/organizer/records")
	assert.Empty(t, decode(t, rec)["records"])
}

func TestCheckInFormEncoded(t *testing.T) {
	router := newAttendanceRouter(t)
	org := newClient(router)
	created := createSession(t, org, "Intro")
	code := created.Session.SessionID

	form := url.Values{
		"name":           {"Asha"},
		"participant_id": {"S1"},
		"latitude":       {"18.88132"},
		"longitude":      {"77.91965"},
		"session_token":  {code},
	}
	req := httptest.NewRequest(http.MethodPost, checkInTarget(t, created.Session.URL), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := newClient(router).do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "checked_in", decode(t, rec)["status"])
}

func TestCheckInFormUnknownSession(t *testing.T) {
	router := newAttendanceRouter(t)
	ws := uuid.NewString()

	rec := newClient(router).get(t, fmt.Sprintf("/w/%s/checkin?session_code=session_nope_1", ws))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Unknown Session", body["session_name"])
	assert.Equal(t, false, body["found"])

	rec = newClient(router).get(t, fmt.Sprintf("/w/%s/checkin", ws))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = newClient(router).get(t, "/w/not-a-workspace/checkin?session_code=x")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkspacesAreIsolated(t *testing.T) {
	router := newAttendanceRouter(t)
	alice, bob := newClient(router), newClient(router)

	createSession(t, alice, "Intro")
	createSession(t, alice, "Lab")
	bobs := createSession(t, bob, "Intro")
	assert.Equal(t, "session_intro_1", bobs.Session.SessionID)

	rec := bob.get(t, "/organizer/sessions")
	assert.Len(t, decode(t, rec)["sessions"], 1)

	rec = alice.get(t, "/organizer/sessions")
	assert.Len(t, decode(t, rec)["sessions"], 2)

	wsA := decode(t, alice.get(t, "/organizer/workspace"))["workspace"]
	wsB := decode(t, bob.get(t, "/organizer/workspace"))["workspace"]
	assert.NotEqual(t, wsA, wsB)
}

func TestCreateSessionBlankName(t *testing.T) {
	org := newClient(newAttendanceRouter(t))
	rec := org.postJSON(t, "/organizer/sessions", gin.H{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_FIELD", decode(t, rec)["code"])
}

func TestRosterUploadFailureResets(t *testing.T) {
	org := newClient(newAttendanceRouter(t))

	rec := org.upload(t, "/organizer/roster", "ID\nS1\n")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = org.upload(t, "/organizer/roster", "Roll\nS1\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "PARSE_ERROR", decode(t, rec)["code"])

	rec = org.get(t, "/organizer/roster")
	assert.Equal(t, 0.0, decode(t, rec)["count"])

	rec = org.do(t, httptest.NewRequest(http.MethodPost, "/organizer/roster", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionQR(t *testing.T) {
	org := newClient(newAttendanceRouter(t))
	created := createSession(t, org, "Intro")

	rec := org.get(t, created.QRURL)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="session_intro_1.png"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = org.get(t, created.QRURL+"&download=1")
	assert.Equal(t, `attachment; filename="session_intro_1.png"`, rec.Header().Get("Content-Disposition"))

	rec = org.get(t, "/organizer/sessions/qr?session_code=session_missing_4")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = org.get(t, "/organizer/sessions/qr")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionQRReservedCharacters(t *testing.T) {
	org := newClient(newAttendanceRouter(t))

	for _, name := range []string{"CS/IT Lab", "Q&A?", "50% #1"} {
		created := createSession(t, org, name)
		rec := org.get(t, created.QRURL)
		require.Equal(t, http.StatusOK, rec.Code, "%s -> %s", created.Session.SessionID, created.QRURL)
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), created.Session.SessionID+".png")
	}
}

func TestHealthz(t *testing.T) {
	rec := newClient(newAttendanceRouter(t)).get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
