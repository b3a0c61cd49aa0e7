package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/whatsons/members-api/models"
)

// GormStore implements Store on top of GORM. The same implementation serves
// Postgres, MySQL and sqlite (tests); the driver is picked from the DSN.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm connects with the given driver ("postgres", "mysql" or "sqlite"),
// migrates the schema and seeds the default site settings row.
func OpenGorm(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventParticipant{},
		&models.SiteSettings{},
		&models.Session{},
		&models.ExportJob{},
	); err != nil {
		return nil, err
	}

	s := &GormStore{db: db}
	if err := s.seedDefaultSettings(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewGormStore wraps an already-open connection (used by tests).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) seedDefaultSettings() error {
	var count int64
	if err := s.db.Model(&models.SiteSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.Create(&models.SiteSettings{
		PrimaryColor:   "#4F45E4",
		SecondaryColor: "#171717",
	}).Error
}

func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation matches the constraint-violation message of each driver.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key value") // postgres
}

// Users

func (s *GormStore) GetUser(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByResetToken(token string) (*models.User, error) {
	var u models.User
	err := s.db.Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).
		First(&u).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *GormStore) CreateUser(u *models.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		// The first registered user becomes an approved admin.
		var total int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			u.Role = models.RoleAdmin
			u.IsApproved = true
		} else if u.Role == "" {
			u.Role = models.RoleUser
		}
		u.IsActive = true

		return translateErr(tx.Create(u).Error)
	})
}

func (s *GormStore) UpdateUser(u *models.User) error {
	return translateErr(s.db.Save(u).Error)
}

func (s *GormStore) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Events

func (s *GormStore) CreateEvent(e *models.Event) error {
	if e.Images == nil {
		e.Images = models.StringList{}
	}
	return translateErr(s.db.Create(e).Error)
}

func (s *GormStore) GetEvent(id uint) (*models.Event, error) {
	var e models.Event
	if err := s.db.First(&e, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &e, nil
}

func (s *GormStore) ListEvents() ([]models.Event, error) {
	var events []models.Event
	if err := s.db.Order("date").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *GormStore) UpdateEvent(e *models.Event) error {
	return translateErr(s.db.Save(e).Error)
}

func (s *GormStore) DeleteEvent(id uint) error {
	res := s.db.Delete(&models.Event{}, id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Participants

func (s *GormStore) AddParticipant(p *models.EventParticipant) error {
	var count int64
	err := s.db.Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", p.EventID, p.UserID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}

	p.IsApproved = false
	if p.PaymentStatus == "" {
		p.PaymentStatus = models.PaymentPending
	}
	return translateErr(s.db.Create(p).Error)
}

func (s *GormStore) GetParticipant(id uint) (*models.EventParticipant, error) {
	var p models.EventParticipant
	if err := s.db.First(&p, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (s *GormStore) UpdateParticipant(p *models.EventParticipant) error {
	// Save writes every column, including a cleared old_values snapshot.
	return translateErr(s.db.Save(p).Error)
}

func (s *GormStore) ListEventParticipants(eventID uint) ([]models.EventParticipant, error) {
	var ps []models.EventParticipant
	if err := s.db.Where("event_id = ?", eventID).Order("id").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *GormStore) ListUserParticipations(userID uint) ([]models.EventParticipant, error) {
	var ps []models.EventParticipant
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *GormStore) GetUserEventParticipation(userID, eventID uint) (*models.EventParticipant, error) {
	var p models.EventParticipant
	err := s.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&p).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

// Site settings

func (s *GormStore) GetSiteSettings() (*models.SiteSettings, error) {
	var st models.SiteSettings
	if err := s.db.Order("id").First(&st).Error; err != nil {
		return nil, translateErr(err)
	}
	return &st, nil
}

func (s *GormStore) UpdateSiteSettings(st *models.SiteSettings) error {
	st.UpdatedAt = time.Now()
	return translateErr(s.db.Save(st).Error)
}

// Sessions

func (s *GormStore) CreateSession(sess *models.Session) error {
	return translateErr(s.db.Create(sess).Error)
}

func (s *GormStore) GetSession(token string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.First(&sess, "token = ?", token).Error; err != nil {
		return nil, translateErr(err)
	}
	if sess.Expired() {
		s.db.Delete(&sess)
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *GormStore) DeleteSession(token string) error {
	return translateErr(s.db.Delete(&models.Session{}, "token = ?", token).Error)
}

func (s *GormStore) DeleteExpiredSessions() error {
	return s.db.Where("expires_at <= ?", time.Now()).Delete(&models.Session{}).Error
}

// Export jobs

func (s *GormStore) CreateExportJob(j *models.ExportJob) error {
	if j.Status == "" {
		j.Status = models.ExportStatusQueued
	}
	return translateErr(s.db.Create(j).Error)
}

func (s *GormStore) GetExportJob(jobID string) (*models.ExportJob, error) {
	var j models.ExportJob
	if err := s.db.First(&j, "job_id = ?", jobID).Error; err != nil {
		return nil, translateErr(err)
	}
	return &j, nil
}

func (s *GormStore) UpdateExportJob(j *models.ExportJob) error {
	return translateErr(s.db.Save(j).Error)
}

func (s *GormStore) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
