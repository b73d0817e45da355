package repository

import (
	"testing"
	"time"

	"skillswap/internal/domain"
	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}))
	return db
}

func seedConfirmedSession(t *testing.T, repo *SessionRepository) *models.Session {
	t.Helper()
	sess := &models.Session{
		CreatorID:     1,
		ParticipantID: 2,
		Title:         "Guitar basics",
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Time:          "14:30",
		Mode:          domain.SessionModeOnline,
		MeetingLink:   "https://meet.example.com/x",
		Status:        domain.SessionStatusConfirmed,
		SkillOffered:  "guitar",
		SkillNeeded:   "spanish",
	}
	require.NoError(t, repo.Create(sess))
	return sess
}

// A claimed reminder flag must survive a later content edit, even when the
// edit goes through a session struct loaded before the claim.
func TestUpdateDoesNotResetClaimedReminderFlags(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	sess := seedConfirmedSession(t, repo)

	loaded, err := repo.GetByID(sess.ID)
	require.NoError(t, err)

	claimed, err := repo.ClaimEmailReminder(sess.ID)
	require.NoError(t, err)
	require.True(t, claimed)
	claimed, err = repo.ClaimSMSReminder(sess.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	// Handler-style edit against the stale struct.
	loaded.Notes = "bring your own guitar"
	require.NoError(t, repo.Update(loaded))

	got, err := repo.GetByID(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "bring your own guitar", got.Notes)
	assert.True(t, got.EmailReminderSent, "email flag must stay claimed across content edits")
	assert.True(t, got.SMSReminderSent, "sms flag must stay claimed across content edits")
}

func TestUpdatePersistsContentAndStatus(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	sess := seedConfirmedSession(t, repo)

	sess.Title = "Guitar, week two"
	sess.Location = "Nairobi Library"
	sess.Mode = domain.SessionModeOffline
	sess.MeetingLink = ""
	sess.Status = domain.SessionStatusCompleted
	require.NoError(t, repo.Update(sess))

	got, err := repo.GetByID(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guitar, week two", got.Title)
	assert.Equal(t, "Nairobi Library", got.Location)
	assert.Equal(t, domain.SessionModeOffline, got.Mode)
	assert.Empty(t, got.MeetingLink, "cleared columns must be written even when zero-valued")
	assert.Equal(t, domain.SessionStatusCompleted, got.Status)
}

func TestClaimEmailReminderIsSingleWinner(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	sess := seedConfirmedSession(t, repo)

	first, err := repo.ClaimEmailReminder(sess.ID)
	require.NoError(t, err)
	second, err := repo.ClaimEmailReminder(sess.ID)
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second, "only one claimant may win the flag")
}
