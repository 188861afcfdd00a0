package database

import (
	"fmt"

	"github.com/csk7msd/student-college-allocation-system-dashboard/models"
)

// CreateSession registers a new session. codeFor receives the 1-based ordinal
// of the new session within its workspace and returns its identifier.
func (s *Store) CreateSession(workspace, displayName string, codeFor func(ordinal int) string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int64
	if err := s.db.Model(&models.Session{}).Where("workspace = ?", workspace).Count(&existing).Error; err != nil {
		return models.Session{}, fmt.Errorf("count sessions: %w", err)
	}

	ordinal := int(existing) + 1
	session := models.Session{
		Workspace:   workspace,
		Code:        codeFor(ordinal),
		DisplayName: displayName,
		Ordinal:     ordinal,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return models.Session{}, fmt.Errorf("insert session %s: %w", session.Code, err)
	}
	return session, nil
}

func (s *Store) GetSession(workspace, code string) (session models.Session, found bool, err error) {
	result := s.db.Where("workspace = ? AND code = ?", workspace, code).Limit(1).Find(&session)
	if result.Error != nil {
		return session, false, fmt.Errorf("get session %s: %w", code, result.Error)
	}
	return session, result.RowsAffected > 0, nil
}

func (s *Store) ListSessions(workspace string) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("workspace = ?", workspace).Order("ordinal").Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) CountSessions(workspace string) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Session{}).Where("workspace = ?", workspace).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
