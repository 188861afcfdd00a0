package database

import (
	"fmt"

	"github.com/csk7msd/student-college-allocation-system-dashboard/models"
)

// RecordCheckIn appends entry to the ledger unless the participant already
// holds that session. created is false for the duplicate case.
func (s *Store) RecordCheckIn(entry models.CheckIn) (created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	err = s.db.Model(&models.CheckIn{}).
		Where("workspace = ? AND participant_id = ? AND session_code = ?", entry.Workspace, entry.ParticipantID, entry.SessionCode).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("lookup check-in: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return false, fmt.Errorf("insert check-in: %w", err)
	}
	return true, nil
}

func (s *Store) CountCheckIns(workspace, participantID string) (int64, error) {
	var n int64
	err := s.db.Model(&models.CheckIn{}).
		Where("workspace = ? AND participant_id = ?", workspace, participantID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return n, nil
}

// SessionsFor returns the session codes participantID checked into, oldest first.
func (s *Store) SessionsFor(workspace, participantID string) ([]string, error) {
	var codes []string
	err := s.db.Model(&models.CheckIn{}).
		Where("workspace = ? AND participant_id = ?", workspace, participantID).
		Order("id").
		Pluck("session_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", participantID, err)
	}
	return codes, nil
}

// ListCheckIns returns the whole ledger of a workspace in insertion order.
func (s *Store) ListCheckIns(workspace string) ([]models.CheckIn, error) {
	var entries []models.CheckIn
	if err := s.db.Where("workspace = ?", workspace).Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return entries, nil
}
