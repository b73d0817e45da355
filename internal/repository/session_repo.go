package repository

import (
	"time"

	"skillswap/internal/domain"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(s *models.Session) error {
	return r.db.Create(s).Error
}

func (r *SessionRepository) GetByID(id uint) (*models.Session, error) {
	var s models.Session
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListForUser returns sessions where the user is creator or participant,
// soonest first.
func (r *SessionRepository) ListForUser(userID uint) ([]models.Session, error) {
	var list []models.Session
	err := r.db.Where("creator_id = ? OR participant_id = ?", userID, userID).
		Order("date ASC, time ASC").Find(&list).Error
	return list, err
}

// ListUpcoming returns up to limit pending/confirmed sessions from today on.
func (r *SessionRepository) ListUpcoming(userID uint, limit int) ([]models.Session, error) {
	today := time.Now().Truncate(24 * time.Hour)
	var list []models.Session
	err := r.db.Where("(creator_id = ? OR participant_id = ?) AND date >= ? AND status IN ?",
		userID, userID, today, []string{domain.SessionStatusPending, domain.SessionStatusConfirmed}).
		Order("date ASC, time ASC").Limit(limit).Find(&list).Error
	return list, err
}

// Update persists content and status edits through an explicit column list.
// The reminder flags are deliberately absent: they are flipped only by the
// scheduler's conditional claim, and writing a session struct loaded before
// a claim back with Save would reset a claimed flag and re-open the
// duplicate-send race.
func (r *SessionRepository) Update(s *models.Session) error {
	return r.db.Model(s).
		Select("title", "date", "time", "mode", "location", "meeting_link",
			"notes", "status", "skill_offered", "skill_needed").
		Updates(s).Error
}

// ReminderCandidates returns confirmed sessions dated around now whose
// reminder flag for the given channel is still unset. The precise start-time
// window check happens in the scheduler, which combines date and time.
func (r *SessionRepository) ReminderCandidates(now time.Time, flagColumn string) ([]models.Session, error) {
	var list []models.Session
	err := r.db.Where("status = ? AND "+flagColumn+" = ? AND date >= ? AND date < ?",
		domain.SessionStatusConfirmed, false,
		now.AddDate(0, 0, -1), now.AddDate(0, 0, 2)).
		Find(&list).Error
	return list, err
}

// ClaimEmailReminder atomically flips email_reminder_sent from false to true.
// Returns true only for the single caller that wins the claim, which closes
// the duplicate-send race between overlapping scheduler ticks.
func (r *SessionRepository) ClaimEmailReminder(id uint) (bool, error) {
	res := r.db.Model(&models.Session{}).
		Where("id = ? AND email_reminder_sent = ?", id, false).
		Update("email_reminder_sent", true)
	return res.RowsAffected == 1, res.Error
}

// ClaimSMSReminder is the SMS counterpart of ClaimEmailReminder.
func (r *SessionRepository) ClaimSMSReminder(id uint) (bool, error) {
	res := r.db.Model(&models.Session{}).
		Where("id = ? AND sms_reminder_sent = ?", id, false).
		Update("sms_reminder_sent", true)
	return res.RowsAffected == 1, res.Error
}
