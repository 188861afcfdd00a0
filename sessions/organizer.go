package sessions

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/csk7msd/student-college-allocation-system-dashboard/models"
	"github.com/csk7msd/student-college-allocation-system-dashboard/qr"
	"github.com/csk7msd/student-college-allocation-system-dashboard/roster"
)

const (
	unknownSession = "Unknown"
	previewSize    = 5
)

// SessionCode builds the identifier of the ordinal-th session named name.
func SessionCode(name string, ordinal int) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	return fmt.Sprintf("session_%s_%d", slug, ordinal)
}

// CreateSession registers a session and returns its share URL, built on
// baseURL. Blank names are rejected before anything is stored.
func (s *Service) CreateSession(workspace, name, baseURL string) (models.CreatedSession, error) {
	if strings.TrimSpace(name) == "" {
		return models.CreatedSession{}, fmt.Errorf("%w: session name", ErrMissingField)
	}

	session, err := s.store.CreateSession(workspace, name, func(ordinal int) string {
		return SessionCode(name, ordinal)
	})
	if err != nil {
		return models.CreatedSession{}, err
	}
	log.Printf("[SESSION] workspace %s created %s (%q)", workspace, session.Code, session.DisplayName)

	return models.CreatedSession{
		SessionView: viewOf(session),
		URL:         qr.ShareURL(baseURL, session.Code),
	}, nil
}

func (s *Service) ListSessions(workspace string) ([]models.SessionView, error) {
	sessions, err := s.store.ListSessions(workspace)
	if err != nil {
		return nil, err
	}
	views := make([]models.SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, viewOf(session))
	}
	return views, nil
}

// LookupSession reports the session behind code, if the workspace has one.
func (s *Service) LookupSession(workspace, code string) (models.SessionView, bool, error) {
	session, found, err := s.store.GetSession(workspace, code)
	if err != nil || !found {
		return models.SessionView{}, found, err
	}
	return viewOf(session), true, nil
}

// IngestRoster replaces the workspace roster with the ID column of r. On any
// parse failure the roster is left empty, not restored.
func (s *Service) IngestRoster(workspace string, r io.Reader) (models.RosterPreview, error) {
	ids, parseErr := roster.Parse(r)
	if parseErr != nil {
		if err := s.store.ReplaceRoster(workspace, nil); err != nil {
			return models.RosterPreview{}, err
		}
		log.Printf("[ROSTER] workspace %s upload rejected: %v", workspace, parseErr)
		return models.RosterPreview{}, fmt.Errorf("%w: %v", ErrParse, parseErr)
	}

	if err := s.store.ReplaceRoster(workspace, ids); err != nil {
		return models.RosterPreview{}, err
	}
	log.Printf("[ROSTER] workspace %s loaded %d ids", workspace, len(ids))
	return s.RosterPreview(workspace)
}

func (s *Service) RosterPreview(workspace string) (models.RosterPreview, error) {
	count, err := s.store.RosterCount(workspace)
	if err != nil {
		return models.RosterPreview{}, err
	}
	head, err := s.store.RosterIDs(workspace, previewSize)
	if err != nil {
		return models.RosterPreview{}, err
	}
	if head == nil {
		head = []string{}
	}
	return models.RosterPreview{Count: int(count), Head: head}, nil
}

// Records flattens the ledger into one row per (participant, session), with
// participants in order of their first check-in. With a roster loaded only
// roster members are listed.
func (s *Service) Records(workspace string) ([]models.AttendanceRecord, error) {
	entries, err := s.store.ListCheckIns(workspace)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions(workspace)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(sessions))
	for _, session := range sessions {
		names[session.Code] = session.DisplayName
	}

	allowed, err := s.rosterFilter(workspace)
	if err != nil {
		return nil, err
	}

	var order []string
	byParticipant := make(map[string][]string)
	for _, e := range entries {
		if _, ok := byParticipant[e.ParticipantID]; !ok {
			order = append(order, e.ParticipantID)
		}
		byParticipant[e.ParticipantID] = append(byParticipant[e.ParticipantID], e.SessionCode)
	}

	records := []models.AttendanceRecord{}
	total := int64(len(sessions))
	for _, pid := range order {
		if allowed != nil && !allowed[pid] {
			continue
		}
		codes := byParticipant[pid]
		pct := percentage(int64(len(codes)), total)
		for _, code := range codes {
			name, ok := names[code]
			if !ok {
				name = unknownSession
			}
			records = append(records, models.AttendanceRecord{
				ParticipantID: pid,
				SessionID:     code,
				SessionName:   name,
				Percentage:    pct,
			})
		}
	}
	return records, nil
}

// rosterFilter returns nil when no roster is loaded.
func (s *Service) rosterFilter(workspace string) (map[string]bool, error) {
	ids, err := s.store.RosterIDs(workspace, 0)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	allowed := make(map[string]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	return allowed, nil
}

func viewOf(session models.Session) models.SessionView {
	return models.SessionView{
		SessionID:   session.Code,
		DisplayName: session.DisplayName,
		Ordinal:     session.Ordinal,
	}
}
