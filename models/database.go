package models

import "time"

// Session is one trackable class/event inside a workspace.
type Session struct {
	Workspace   string `gorm:"primaryKey"`
	Code        string `gorm:"primaryKey"`
	DisplayName string
	Ordinal     int
	CreatedAt   time.Time
}

// CheckIn is one ledger entry. The (workspace, participant, session) triple is
// unique so a participant's session list never holds duplicates; ID order is
// the order the participant checked in.
type CheckIn struct {
	ID            uint   `gorm:"primaryKey"`
	Workspace     string `gorm:"uniqueIndex:idx_checkin_once;index:idx_checkin_participant"`
	ParticipantID string `gorm:"uniqueIndex:idx_checkin_once;index:idx_checkin_participant"`
	SessionCode   string `gorm:"uniqueIndex:idx_checkin_once"`
	Name          string
	Latitude      float64
	Longitude     float64
	DistanceKM    float64
	CreatedAt     time.Time
}

type RosterEntry struct {
	Workspace     string `gorm:"primaryKey"`
	ParticipantID string `gorm:"primaryKey"`
	Position      int
}
