package sessions

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/csk7msd/student-college-allocation-system-dashboard/geofence"
	"github.com/csk7msd/student-college-allocation-system-dashboard/models"
)

// CheckIn validates a participant submission for sessionCode and records it.
// Checks run in this order: roster membership, required fields, location,
// session token. A repeated check-in is reported with
// StatusAlreadyCheckedIn and leaves the ledger untouched.
func (s *Service) CheckIn(workspace, sessionCode string, req models.CheckInRequest) (models.CheckInResult, error) {
	name := strings.TrimSpace(req.Name)
	pid := strings.TrimSpace(req.ParticipantID)

	rostered, err := s.rosterAllows(workspace, pid)
	if err != nil {
		return models.CheckInResult{}, err
	}
	if !rostered {
		return models.CheckInResult{}, ErrRosterMismatch
	}

	if name == "" || pid == "" {
		return models.CheckInResult{}, ErrMissingField
	}

	within, distance, err := s.fence.Check(geofence.Point{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		if errors.Is(err, geofence.ErrInvalidCoordinates) {
			return models.CheckInResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return models.CheckInResult{}, err
	}
	if !within {
		log.Printf("[CHECKIN] %s rejected for %s: %.2f km away", pid, sessionCode, distance)
		return models.CheckInResult{}, &OutOfRangeError{DistanceKM: distance, RadiusKM: s.fence.RadiusKM}
	}

	if req.SessionToken != sessionCode {
		return models.CheckInResult{}, ErrInvalidSession
	}
	session, found, err := s.store.GetSession(workspace, sessionCode)
	if err != nil {
		return models.CheckInResult{}, err
	}
	if !found {
		return models.CheckInResult{}, ErrInvalidSession
	}

	created, err := s.store.RecordCheckIn(models.CheckIn{
		Workspace:     workspace,
		ParticipantID: pid,
		SessionCode:   session.Code,
		Name:          name,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		DistanceKM:    distance,
	})
	if err != nil {
		return models.CheckInResult{}, err
	}

	pct, err := s.Percentage(workspace, pid)
	if err != nil {
		return models.CheckInResult{}, err
	}

	result := models.CheckInResult{
		ParticipantID: pid,
		SessionID:     session.Code,
		SessionName:   session.DisplayName,
		DistanceKM:    distance,
		Percentage:    pct,
	}
	if !created {
		result.Status = models.StatusAlreadyCheckedIn
		result.Message = "You have already marked attendance for this session."
		return result, nil
	}

	result.Status = models.StatusCheckedIn
	result.Message = fmt.Sprintf("Attendance marked for %s (%s)!", name, pid)
	log.Printf("[CHECKIN] %s marked present for %s", pid, session.Code)
	s.broker.Publish(workspace)
	return result, nil
}

// rosterAllows is true when no roster is loaded or pid is on it.
func (s *Service) rosterAllows(workspace, pid string) (bool, error) {
	n, err := s.store.RosterCount(workspace)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return true, nil
	}
	return s.store.RosterContains(workspace, pid)
}
