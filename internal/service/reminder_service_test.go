package service

import (
	"context"
	"testing"
	"time"

	"skillswap/internal/domain"
	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	sessions []models.Session
	// claimed flags keyed by session id, mirroring the conditional UPDATE.
	emailClaimed map[uint]bool
	smsClaimed   map[uint]bool
}

func newFakeSessionStore(sessions ...models.Session) *fakeSessionStore {
	return &fakeSessionStore{
		sessions:     sessions,
		emailClaimed: map[uint]bool{},
		smsClaimed:   map[uint]bool{},
	}
}

func (f *fakeSessionStore) ReminderCandidates(now time.Time, flagColumn string) ([]models.Session, error) {
	claimed := f.emailClaimed
	if flagColumn == "sms_reminder_sent" {
		claimed = f.smsClaimed
	}
	var out []models.Session
	for _, s := range f.sessions {
		if s.Status == domain.SessionStatusConfirmed && !claimed[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) ClaimEmailReminder(id uint) (bool, error) {
	if f.emailClaimed[id] {
		return false, nil
	}
	f.emailClaimed[id] = true
	return true, nil
}

func (f *fakeSessionStore) ClaimSMSReminder(id uint) (bool, error) {
	if f.smsClaimed[id] {
		return false, nil
	}
	f.smsClaimed[id] = true
	return true, nil
}

type fakeSweeper struct {
	cutoffs []time.Time
	deleted int64
}

func (f *fakeSweeper) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deleted, nil
}

type dispatchCall struct {
	userID   uint
	message  string
	ntype    string
	channels []string
}

type fakeDispatcher struct {
	calls []dispatchCall
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, userID uint, message, ntype string, data map[string]interface{}, channels []string) {
	f.calls = append(f.calls, dispatchCall{userID: userID, message: message, ntype: ntype, channels: channels})
}

func confirmedSession(id uint, start time.Time) models.Session {
	return models.Session{
		ID:            id,
		CreatorID:     10,
		ParticipantID: 20,
		Title:         "Guitar basics",
		Date:          time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		Time:          start.Format("15:04"),
		Mode:          domain.SessionModeOnline,
		MeetingLink:   "https://meet.example.com/abc",
		Status:        domain.SessionStatusConfirmed,
	}
}

func newTestReminder(store *fakeSessionStore, disp *fakeDispatcher, sweeper *fakeSweeper, now time.Time) *ReminderService {
	users := &fakeUserGetter{users: map[uint]*models.User{
		10: {ID: 10, DeviceToken: "tok-creator"},
		20: {ID: 20}, // no device token
	}}
	svc := NewReminderService(store, users, sweeper, disp, 5*time.Minute, time.Hour, 30*time.Minute, 30)
	svc.now = func() time.Time { return now }
	return svc
}

func TestScanSendsEmailReminderInWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeSessionStore(confirmedSession(1, now.Add(45*time.Minute)))
	disp := &fakeDispatcher{}
	svc := newTestReminder(store, disp, &fakeSweeper{}, now)

	svc.Scan(context.Background())

	// Email reminder to both parties, push only where a device token exists.
	// 45 minutes out is past the SMS window, so no SMS pass fires.
	require.Len(t, disp.calls, 2)
	emailCalls := disp.calls
	assert.Equal(t, uint(10), emailCalls[0].userID)
	assert.Equal(t, []string{domain.ChannelEmail, domain.ChannelPush}, emailCalls[0].channels)
	assert.Equal(t, uint(20), emailCalls[1].userID)
	assert.Equal(t, []string{domain.ChannelEmail}, emailCalls[1].channels)
	assert.Contains(t, emailCalls[0].message, "Guitar basics")
	assert.Contains(t, emailCalls[0].message, "starts in 1 hour")
	assert.Equal(t, domain.NotificationTypeSession, emailCalls[0].ntype)
}

func TestScanSendsSMSReminderInWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeSessionStore(confirmedSession(1, now.Add(20*time.Minute)))
	disp := &fakeDispatcher{}
	svc := newTestReminder(store, disp, &fakeSweeper{}, now)

	svc.Scan(context.Background())

	var smsCalls []dispatchCall
	for _, c := range disp.calls {
		if c.channels[0] == domain.ChannelSMS {
			smsCalls = append(smsCalls, c)
		}
	}
	require.Len(t, smsCalls, 2)
	assert.Equal(t, []string{domain.ChannelSMS, domain.ChannelInApp}, smsCalls[0].channels)
	assert.Contains(t, smsCalls[0].message, "starts in 30 minutes")
	assert.Contains(t, smsCalls[0].message, "Meeting link:")
}

func TestScanIgnoresSessionsOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeSessionStore(
		confirmedSession(1, now.Add(2*time.Hour)),    // too far out
		confirmedSession(2, now.Add(-10*time.Minute)), // already started
	)
	disp := &fakeDispatcher{}
	svc := newTestReminder(store, disp, &fakeSweeper{}, now)

	svc.Scan(context.Background())

	assert.Empty(t, disp.calls)
	assert.Empty(t, store.emailClaimed)
	assert.Empty(t, store.smsClaimed)
}

func TestScanIsIdempotentAcrossTicks(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeSessionStore(confirmedSession(1, now.Add(40*time.Minute)))
	disp := &fakeDispatcher{}
	svc := newTestReminder(store, disp, &fakeSweeper{}, now)

	svc.Scan(context.Background())
	first := len(disp.calls)
	require.Greater(t, first, 0)

	// Second tick five minutes later: the flags are claimed, nothing resends.
	svc.now = func() time.Time { return now.Add(5 * time.Minute) }
	svc.Scan(context.Background())
	assert.Len(t, disp.calls, first)
}

func TestScanSkipsUnclaimedFlag(t *testing.T) {
	// Simulate another instance winning the claim between the candidate query
	// and our update.
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sess := confirmedSession(1, now.Add(40*time.Minute))
	store := newFakeSessionStore(sess)
	store.ClaimEmailReminder(1)
	store.ClaimSMSReminder(1)
	disp := &fakeDispatcher{}
	svc := newTestReminder(store, disp, &fakeSweeper{}, now)

	svc.Scan(context.Background())

	assert.Empty(t, disp.calls)
}

func TestSweepUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sweeper := &fakeSweeper{deleted: 3}
	svc := newTestReminder(newFakeSessionStore(), &fakeDispatcher{}, sweeper, now)

	svc.Sweep()

	require.Len(t, sweeper.cutoffs, 1)
	assert.Equal(t, now.AddDate(0, 0, -30), sweeper.cutoffs[0])
}
