package models

type SessionView struct {
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name"`
	Ordinal     int    `json:"ordinal"`
}

type CreatedSession struct {
	SessionView
	URL string `json:"url"`
}

type CheckInStatus string

const (
	StatusCheckedIn        CheckInStatus = "checked_in"
	StatusAlreadyCheckedIn CheckInStatus = "already_checked_in"
)

type CheckInResult struct {
	Status        CheckInStatus `json:"status"`
	Message       string        `json:"message"`
	ParticipantID string        `json:"participant_id"`
	SessionID     string        `json:"session_id"`
	SessionName   string        `json:"session_name"`
	DistanceKM    float64       `json:"distance_km"`
	Percentage    float64       `json:"percentage"`
}

// AttendanceRecord is one row of the organizer's attendance report.
type AttendanceRecord struct {
	ParticipantID string  `json:"participant_id"`
	SessionID     string  `json:"session_id"`
	SessionName   string  `json:"session_name"`
	Percentage    float64 `json:"percentage"`
}

type RosterPreview struct {
	Count int      `json:"count"`
	Head  []string `json:"head"`
}
