package storage

import (
	"errors"

	"github.com/whatsons/members-api/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique-constraint violations
	// (username, (event,user) participant pair).
	ErrDuplicate = errors.New("duplicate record")
)

// Store abstracts persistence so the API can run against Postgres, MySQL or
// an in-memory fallback interchangeably. Implementations must keep the
// (event,user) participant pair unique, apply the first-registered-user
// admin rule in CreateUser, and round-trip JSON columns losslessly.
type Store interface {
	// Users
	GetUser(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	// GetUserByResetToken only matches tokens whose expiry is in the future.
	GetUserByResetToken(token string) (*models.User, error)
	CreateUser(u *models.User) error
	UpdateUser(u *models.User) error
	ListUsers() ([]models.User, error)

	// Events
	CreateEvent(e *models.Event) error
	GetEvent(id uint) (*models.Event, error)
	ListEvents() ([]models.Event, error)
	UpdateEvent(e *models.Event) error
	DeleteEvent(id uint) error

	// Participants
	AddParticipant(p *models.EventParticipant) error
	GetParticipant(id uint) (*models.EventParticipant, error)
	UpdateParticipant(p *models.EventParticipant) error
	ListEventParticipants(eventID uint) ([]models.EventParticipant, error)
	ListUserParticipations(userID uint) ([]models.EventParticipant, error)
	GetUserEventParticipation(userID, eventID uint) (*models.EventParticipant, error)

	// Site settings (singleton, defaulted on first boot)
	GetSiteSettings() (*models.SiteSettings, error)
	UpdateSiteSettings(s *models.SiteSettings) error

	// Sessions
	CreateSession(s *models.Session) error
	GetSession(token string) (*models.Session, error)
	DeleteSession(token string) error
	DeleteExpiredSessions() error

	// Export jobs
	CreateExportJob(j *models.ExportJob) error
	GetExportJob(jobID string) (*models.ExportJob, error)
	UpdateExportJob(j *models.ExportJob) error

	Ping() error
	Close() error
}
