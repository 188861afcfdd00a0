package database

import (
	"fmt"

	"github.com/csk7msd/student-college-allocation-system-dashboard/models"
	"gorm.io/gorm"
)

// ReplaceRoster swaps the workspace roster for ids wholesale. Passing no ids
// leaves the roster empty.
func (s *Store) ReplaceRoster(workspace string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace = ?", workspace).Delete(&models.RosterEntry{}).Error; err != nil {
			return fmt.Errorf("clear roster: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		entries := make([]models.RosterEntry, 0, len(ids))
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			entries = append(entries, models.RosterEntry{
				Workspace:     workspace,
				ParticipantID: id,
				Position:      len(entries),
			})
		}
		if err := tx.CreateInBatches(entries, 400).Error; err != nil {
			return fmt.Errorf("insert roster: %w", err)
		}
		return nil
	})
}

func (s *Store) RosterContains(workspace, participantID string) (bool, error) {
	var n int64
	err := s.db.Model(&models.RosterEntry{}).
		Where("workspace = ? AND participant_id = ?", workspace, participantID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("roster lookup: %w", err)
	}
	return n > 0, nil
}

func (s *Store) RosterCount(workspace string) (int64, error) {
	var n int64
	if err := s.db.Model(&models.RosterEntry{}).Where("workspace = ?", workspace).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count roster: %w", err)
	}
	return n, nil
}

// RosterIDs returns up to limit roster ids in upload order; limit <= 0 means all.
func (s *Store) RosterIDs(workspace string, limit int) ([]string, error) {
	var ids []string
	q := s.db.Model(&models.RosterEntry{}).Where("workspace = ?", workspace).Order("position")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("participant_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return ids, nil
}
