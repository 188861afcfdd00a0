// Package sessions holds the attendance rules: session creation, geofenced
// check-in, attendance percentages and the organizer's report. State lives in
// a database.Store and is always addressed by workspace.
package sessions

import (
	"github.com/csk7msd/student-college-allocation-system-dashboard/database"
	"github.com/csk7msd/student-college-allocation-system-dashboard/geofence"
)

type Service struct {
	store  *database.Store
	fence  geofence.Fence
	broker *Broker
}

func NewService(store *database.Store, fence geofence.Fence, broker *Broker) *Service {
	return &Service{store: store, fence: fence, broker: broker}
}

func (s *Service) Fence() geofence.Fence { return s.fence }

// Percentage is attended / total sessions of the workspace, in [0, 100].
// It is 0 while the workspace has no sessions.
func (s *Service) Percentage(workspace, participantID string) (float64, error) {
	total, err := s.store.CountSessions(workspace)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	attended, err := s.store.CountCheckIns(workspace, participantID)
	if err != nil {
		return 0, err
	}
	return percentage(attended, total), nil
}

func percentage(attended, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(attended) / float64(total) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Subscribe listens for ledger changes in workspace.
func (s *Service) Subscribe(workspace string) (<-chan struct{}, func()) {
	return s.broker.Subscribe(workspace)
}
