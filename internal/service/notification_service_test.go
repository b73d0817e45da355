package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"skillswap/internal/domain"
	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserGetter struct {
	users map[uint]*models.User
}

func (f *fakeUserGetter) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

type fakeStore struct {
	mu      sync.Mutex
	created []*models.Notification
	err     error
}

func (f *fakeStore) Create(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	n.ID = uint(len(f.created) + 1)
	f.created = append(f.created, n)
	return nil
}

func (f *fakeStore) last() *models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []string // "to|subject"
	err  error
}

func (f *fakeEmail) Send(ctx context.Context, to, subject, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

func (f *fakeEmail) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeSMS struct {
	sent []string
	err  error
}

func (f *fakeSMS) Send(ctx context.Context, phoneNumber, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phoneNumber)
	return nil
}

type fakePush struct {
	sent []string
	err  error
}

func (f *fakePush) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, token)
	return nil
}

type fakeHub struct {
	online    map[uint]bool
	published []string // event names
}

func (f *fakeHub) HasUser(userID uint) bool { return f.online[userID] }

func (f *fakeHub) PublishToUser(userID uint, event string, payload interface{}) {
	f.published = append(f.published, event)
}

func allChannelsUser() *models.User {
	return &models.User{
		ID:                 1,
		Name:               "Amina",
		Email:              "amina@example.com",
		PhoneNumber:        "+254700000001",
		DeviceToken:        "device-abc",
		EmailNotifications: true,
		SMSNotifications:   true,
		PushNotifications:  true,
		InAppNotifications: true,
	}
}

func newTestDispatcher(u *models.User) (*NotificationService, *fakeStore, *fakeEmail, *fakeSMS, *fakePush, *fakeHub) {
	users := &fakeUserGetter{users: map[uint]*models.User{}}
	if u != nil {
		users.users[u.ID] = u
	}
	store := &fakeStore{}
	email := &fakeEmail{}
	sms := &fakeSMS{}
	push := &fakePush{}
	hub := &fakeHub{online: map[uint]bool{}}
	return NewNotificationService(users, store, email, sms, push, hub), store, email, sms, push, hub
}

func TestDispatchEmptyChannelsIsNoOp(t *testing.T) {
	svc, store, email, sms, push, hub := newTestDispatcher(allChannelsUser())
	svc.Dispatch(context.Background(), 1, "hello", domain.NotificationTypeSystem, nil, nil)
	assert.Empty(t, store.created)
	assert.Empty(t, email.sent)
	assert.Empty(t, sms.sent)
	assert.Empty(t, push.sent)
	assert.Empty(t, hub.published)
}

func TestDispatchUnknownUserIsDropped(t *testing.T) {
	svc, store, email, _, _, _ := newTestDispatcher(nil)
	svc.Dispatch(context.Background(), 42, "hello", domain.NotificationTypeSystem, nil,
		[]string{domain.ChannelInApp, domain.ChannelEmail})
	assert.Empty(t, store.created)
	assert.Empty(t, email.sent)
}

func TestDispatchAllChannels(t *testing.T) {
	u := allChannelsUser()
	svc, store, email, sms, push, hub := newTestDispatcher(u)
	hub.online[1] = true

	svc.Dispatch(context.Background(), 1, "swap incoming", domain.NotificationTypeSwap,
		map[string]interface{}{"swap_id": 7},
		[]string{domain.ChannelInApp, domain.ChannelEmail, domain.ChannelSMS, domain.ChannelPush})

	require.Len(t, store.created, 1)
	n := store.created[0]
	assert.Equal(t, uint(1), n.UserID)
	assert.Equal(t, "swap incoming", n.Message)
	assert.Equal(t, domain.NotificationTypeSwap, n.Type)
	assert.Equal(t, domain.PriorityMedium, n.Priority)
	assert.JSONEq(t, `{"swap_id":7}`, string(n.Data))

	assert.Equal(t, []string{"amina@example.com|SkillSwap - New Swap Activity"}, email.sent)
	assert.Equal(t, []string{"+254700000001"}, sms.sent)
	assert.Equal(t, []string{"device-abc"}, push.sent)
	assert.Equal(t, []string{"newNotification"}, hub.published)
}

func TestDispatchRespectsPreferenceToggles(t *testing.T) {
	u := allChannelsUser()
	u.EmailNotifications = false
	u.SMSNotifications = false
	u.PushNotifications = false
	u.InAppNotifications = false
	svc, store, email, sms, push, hub := newTestDispatcher(u)
	hub.online[1] = true

	svc.Dispatch(context.Background(), 1, "msg", domain.NotificationTypeMessage, nil,
		[]string{domain.ChannelInApp, domain.ChannelEmail, domain.ChannelSMS, domain.ChannelPush})

	assert.Empty(t, store.created)
	assert.Empty(t, email.sent)
	assert.Empty(t, sms.sent)
	assert.Empty(t, push.sent)
	assert.Empty(t, hub.published)
}

func TestDispatchSkipsChannelsWithoutEndpoint(t *testing.T) {
	u := allChannelsUser()
	u.PhoneNumber = ""
	u.DeviceToken = ""
	svc, _, _, sms, push, _ := newTestDispatcher(u)

	svc.Dispatch(context.Background(), 1, "msg", domain.NotificationTypeMessage, nil,
		[]string{domain.ChannelSMS, domain.ChannelPush})

	assert.Empty(t, sms.sent)
	assert.Empty(t, push.sent)
}

// A failing channel must not stop the remaining channels.
func TestDispatchChannelFailureIsIsolated(t *testing.T) {
	u := allChannelsUser()
	svc, store, email, sms, _, _ := newTestDispatcher(u)
	email.err = errors.New("resend 500")

	svc.Dispatch(context.Background(), 1, "msg", domain.NotificationTypeSwap, nil,
		[]string{domain.ChannelEmail, domain.ChannelSMS, domain.ChannelInApp})

	assert.Empty(t, email.sent)
	assert.Equal(t, []string{"+254700000001"}, sms.sent)
	require.Len(t, store.created, 1)
}

// In-app stays ledger-only when the user has no live connection.
func TestDispatchInAppOfflineUserPersistsWithoutPublish(t *testing.T) {
	u := allChannelsUser()
	svc, store, _, _, _, hub := newTestDispatcher(u)

	svc.Dispatch(context.Background(), 1, "msg", domain.NotificationTypeSession, nil,
		[]string{domain.ChannelInApp})

	require.Len(t, store.created, 1)
	assert.Empty(t, hub.published)
}

func TestDispatchInAppPersistFailureSkipsPublish(t *testing.T) {
	u := allChannelsUser()
	svc, store, _, _, _, hub := newTestDispatcher(u)
	store.err = errors.New("db down")
	hub.online[1] = true

	svc.Dispatch(context.Background(), 1, "msg", domain.NotificationTypeSession, nil,
		[]string{domain.ChannelInApp})

	assert.Empty(t, hub.published)
}

func TestNotifyWelcomeProducesSystemNotification(t *testing.T) {
	u := allChannelsUser()
	svc, store, email, _, _, _ := newTestDispatcher(u)

	svc.NotifyWelcome(1, "Amina")

	require.Eventually(t, func() bool {
		return store.last() != nil && email.sentCount() == 1
	}, time.Second, 5*time.Millisecond)
	n := store.last()
	assert.Equal(t, domain.NotificationTypeSystem, n.Type)
	assert.Contains(t, n.Message, "Welcome to SkillSwap, Amina!")
	email.mu.Lock()
	defer email.mu.Unlock()
	assert.Equal(t, []string{"amina@example.com|SkillSwap - System Update"}, email.sent)
}

func TestNotifyLoginProducesSystemNotification(t *testing.T) {
	u := allChannelsUser()
	svc, store, _, _, _, _ := newTestDispatcher(u)

	svc.NotifyLogin(1, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))

	require.Eventually(t, func() bool {
		return store.last() != nil
	}, time.Second, 5*time.Millisecond)
	n := store.last()
	assert.Equal(t, domain.NotificationTypeSystem, n.Type)
	assert.Contains(t, n.Message, "Mar 1, 2026 09:30")
}

func TestMessagePreviewTruncatesOnRunes(t *testing.T) {
	short := "hej då"
	assert.Equal(t, short, messagePreview(short))

	long := strings.Repeat("héllo wörld ", 10)
	got := messagePreview(long)
	runes := []rune(got)
	assert.Len(t, runes, 53)
	assert.Equal(t, []rune(long)[:50], runes[:50], "cut must land on a rune boundary")
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestEmailSubject(t *testing.T) {
	tests := []struct {
		ntype string
		want  string
	}{
		{domain.NotificationTypeSwap, "SkillSwap - New Swap Activity"},
		{domain.NotificationTypeSession, "SkillSwap - Session Reminder"},
		{domain.NotificationTypeSystem, "SkillSwap - System Update"},
		{domain.NotificationTypeMessage, "SkillSwap - Notification"},
		{"whatever", "SkillSwap - Notification"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EmailSubject(tt.ntype), "type %q", tt.ntype)
	}
}
