package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/whatsons/members-api/models"
)

// MemStore is a map-backed Store used when no database is configured or as
// the boot-time fallback after a failed connection. State lives for the
// process lifetime only.
type MemStore struct {
	mu sync.RWMutex

	users        map[uint]models.User
	events       map[uint]models.Event
	participants map[uint]models.EventParticipant
	sessions     map[string]models.Session
	exportJobs   map[string]models.ExportJob
	settings     models.SiteSettings

	nextUserID        uint
	nextEventID       uint
	nextParticipantID uint
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:        make(map[uint]models.User),
		events:       make(map[uint]models.Event),
		participants: make(map[uint]models.EventParticipant),
		sessions:     make(map[string]models.Session),
		exportJobs:   make(map[string]models.ExportJob),
		settings: models.SiteSettings{
			ID:             1,
			PrimaryColor:   "#4F45E4",
			SecondaryColor: "#171717",
			UpdatedAt:      time.Now(),
		},
		nextUserID:        1,
		nextEventID:       1,
		nextParticipantID: 1,
	}
}

// Users

func (m *MemStore) GetUser(id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemStore) GetUserByUsername(username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) GetUserByResetToken(token string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(time.Now()) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) CreateUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return ErrDuplicate
		}
	}

	u.ID = m.nextUserID
	m.nextUserID++

	// The first registered user becomes an approved admin.
	if len(m.users) == 0 {
		u.Role = models.RoleAdmin
		u.IsApproved = true
	} else if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.IsActive = true
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt

	m.users[u.ID] = *u
	return nil
}

func (m *MemStore) UpdateUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *MemStore) ListUsers() ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Events

func (m *MemStore) CreateEvent(e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextEventID
	m.nextEventID++
	if e.Images == nil {
		e.Images = models.StringList{}
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.events[e.ID] = *e
	return nil
}

func (m *MemStore) GetEvent(id uint) (*models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemStore) ListEvents() ([]models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (m *MemStore) UpdateEvent(e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return ErrNotFound
	}
	e.UpdatedAt = time.Now()
	m.events[e.ID] = *e
	return nil
}

func (m *MemStore) DeleteEvent(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return ErrNotFound
	}
	delete(m.events, id)
	return nil
}

// Participants

func (m *MemStore) AddParticipant(p *models.EventParticipant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.participants {
		if existing.EventID == p.EventID && existing.UserID == p.UserID {
			return ErrDuplicate
		}
	}

	p.ID = m.nextParticipantID
	m.nextParticipantID++
	p.IsApproved = false
	if p.PaymentStatus == "" {
		p.PaymentStatus = models.PaymentPending
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.participants[p.ID] = *p
	return nil
}

func (m *MemStore) GetParticipant(id uint) (*models.EventParticipant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemStore) UpdateParticipant(p *models.EventParticipant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.participants[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	m.participants[p.ID] = *p
	return nil
}

func (m *MemStore) ListEventParticipants(eventID uint) ([]models.EventParticipant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ps []models.EventParticipant
	for _, p := range m.participants {
		if p.EventID == eventID {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
	return ps, nil
}

func (m *MemStore) ListUserParticipations(userID uint) ([]models.EventParticipant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ps []models.EventParticipant
	for _, p := range m.participants {
		if p.UserID == userID {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
	return ps, nil
}

func (m *MemStore) GetUserEventParticipation(userID, eventID uint) (*models.EventParticipant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.participants {
		if p.UserID == userID && p.EventID == eventID {
			p := p
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Site settings

func (m *MemStore) GetSiteSettings() (*models.SiteSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := m.settings
	return &st, nil
}

func (m *MemStore) UpdateSiteSettings(st *models.SiteSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st.ID = m.settings.ID
	st.UpdatedAt = time.Now()
	m.settings = *st
	return nil
}

// Sessions

func (m *MemStore) CreateSession(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.CreatedAt = time.Now()
	m.sessions[s.Token] = *s
	return nil
}

func (m *MemStore) GetSession(token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired() {
		delete(m.sessions, token)
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemStore) DeleteSession(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemStore) DeleteExpiredSessions() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.Expired() {
			delete(m.sessions, token)
		}
	}
	return nil
}

// Export jobs

func (m *MemStore) CreateExportJob(j *models.ExportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j.Status == "" {
		j.Status = models.ExportStatusQueued
	}
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	m.exportJobs[j.JobID] = *j
	return nil
}

func (m *MemStore) GetExportJob(jobID string) (*models.ExportJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.exportJobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	return &j, nil
}

func (m *MemStore) UpdateExportJob(j *models.ExportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exportJobs[j.JobID]; !ok {
		return ErrNotFound
	}
	j.UpdatedAt = time.Now()
	m.exportJobs[j.JobID] = *j
	return nil
}

func (m *MemStore) Ping() error { return nil }

func (m *MemStore) Close() error { return nil }
