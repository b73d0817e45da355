package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"skillswap/internal/domain"
	"skillswap/internal/models"
)

type sessionReminderStore interface {
	ReminderCandidates(now time.Time, flagColumn string) ([]models.Session, error)
	ClaimEmailReminder(id uint) (bool, error)
	ClaimSMSReminder(id uint) (bool, error)
}

type notificationSweeper interface {
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
}

type dispatcher interface {
	Dispatch(ctx context.Context, userID uint, message, ntype string, data map[string]interface{}, channels []string)
}

// ReminderService is pure background orchestration: a 5-minute scan that sends
// at most one email reminder and one SMS reminder per confirmed session, and a
// daily sweep that deletes old read notifications.
type ReminderService struct {
	sessions sessionReminderStore
	users    userGetter
	sweeper  notificationSweeper
	notifier dispatcher

	scanInterval   time.Duration
	emailLookahead time.Duration
	smsLookahead   time.Duration
	retention      time.Duration

	now func() time.Time
}

func NewReminderService(sessions sessionReminderStore, users userGetter, sweeper notificationSweeper, notifier dispatcher,
	scanInterval, emailLookahead, smsLookahead time.Duration, retentionDays int) *ReminderService {
	return &ReminderService{
		sessions:       sessions,
		users:          users,
		sweeper:        sweeper,
		notifier:       notifier,
		scanInterval:   scanInterval,
		emailLookahead: emailLookahead,
		smsLookahead:   smsLookahead,
		retention:      time.Duration(retentionDays) * 24 * time.Hour,
		now:            time.Now,
	}
}

// Start launches the reminder scan and the retention sweep on their own
// goroutines. Both stop when ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) {
	go s.runScans(ctx)
	go s.runSweep(ctx)
	log.Printf("[Reminders] scheduler started (scan every %s)", s.scanInterval)
}

func (s *ReminderService) runScans(ctx context.Context) {
	ticker := time.NewTicker(s.scanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Reminders] scan loop stopped")
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

func (s *ReminderService) runSweep(ctx context.Context) {
	for {
		// Fire at the next midnight, like the retention job always has.
		now := s.now()
		next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("[Reminders] sweep loop stopped")
			return
		case <-timer.C:
			s.Sweep()
		}
	}
}

// Scan finds confirmed sessions entering their reminder windows and sends
// each reminder at most once. The flag claim is an atomic conditional update,
// so overlapping ticks cannot both send for the same session.
func (s *ReminderService) Scan(ctx context.Context) {
	now := s.now()
	s.scanEmail(ctx, now)
	s.scanSMS(ctx, now)
}

func (s *ReminderService) scanEmail(ctx context.Context, now time.Time) {
	candidates, err := s.sessions.ReminderCandidates(now, "email_reminder_sent")
	if err != nil {
		log.Printf("[Reminders] email candidate query failed: %v", err)
		return
	}
	sent := 0
	for i := range candidates {
		sess := candidates[i]
		start := sess.StartsAt(now.Location())
		if start.Before(now) || start.After(now.Add(s.emailLookahead)) {
			continue
		}
		claimed, err := s.sessions.ClaimEmailReminder(sess.ID)
		if err != nil {
			log.Printf("[Reminders] claim email flag for session %d: %v", sess.ID, err)
			continue
		}
		if !claimed {
			continue
		}
		message := fmt.Sprintf("Reminder: Your session %q starts in 1 hour at %s on %s (%s). %s",
			sess.Title, sess.Time, sess.Date.Format("2006-01-02"), sess.Mode, sess.Place())
		data := map[string]interface{}{"session_id": sess.ID, "type": "reminder_1hour"}
		for _, uid := range []uint{sess.CreatorID, sess.ParticipantID} {
			channels := []string{domain.ChannelEmail}
			if u, err := s.users.GetByID(uid); err == nil && u.DeviceToken != "" {
				channels = append(channels, domain.ChannelPush)
			}
			s.notifier.Dispatch(ctx, uid, message, domain.NotificationTypeSession, data, channels)
		}
		sent++
	}
	if sent > 0 {
		log.Printf("[Reminders] sent %d email reminders", sent)
	}
}

func (s *ReminderService) scanSMS(ctx context.Context, now time.Time) {
	candidates, err := s.sessions.ReminderCandidates(now, "sms_reminder_sent")
	if err != nil {
		log.Printf("[Reminders] sms candidate query failed: %v", err)
		return
	}
	sent := 0
	for i := range candidates {
		sess := candidates[i]
		start := sess.StartsAt(now.Location())
		if start.Before(now) || start.After(now.Add(s.smsLookahead)) {
			continue
		}
		claimed, err := s.sessions.ClaimSMSReminder(sess.ID)
		if err != nil {
			log.Printf("[Reminders] claim sms flag for session %d: %v", sess.ID, err)
			continue
		}
		if !claimed {
			continue
		}
		message := fmt.Sprintf("SkillSwap Reminder: Your session %q starts in 30 minutes at %s. %s",
			sess.Title, sess.Time, sess.Place())
		data := map[string]interface{}{"session_id": sess.ID, "type": "reminder_30min"}
		for _, uid := range []uint{sess.CreatorID, sess.ParticipantID} {
			s.notifier.Dispatch(ctx, uid, message, domain.NotificationTypeSession, data,
				[]string{domain.ChannelSMS, domain.ChannelInApp})
		}
		sent++
	}
	if sent > 0 {
		log.Printf("[Reminders] sent %d sms reminders", sent)
	}
}

// Sweep deletes read notifications older than the retention window. Unread
// notifications are kept indefinitely.
func (s *ReminderService) Sweep() {
	cutoff := s.now().Add(-s.retention)
	deleted, err := s.sweeper.DeleteReadOlderThan(cutoff)
	if err != nil {
		log.Printf("[Reminders] notification sweep failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Reminders] cleaned up %d old notifications", deleted)
	}
}
