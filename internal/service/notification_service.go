package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"skillswap/internal/domain"
	"skillswap/internal/models"

	"gorm.io/datatypes"
)

// Dependency seams, satisfied by the concrete repositories, channel services
// and the ws hub. Kept narrow so tests can inject fakes.
type userGetter interface {
	GetByID(id uint) (*models.User, error)
}

type notificationStore interface {
	Create(n *models.Notification) error
}

type emailSender interface {
	Send(ctx context.Context, to, subject, text string) error
}

type smsSender interface {
	Send(ctx context.Context, phoneNumber, body string) error
}

type pushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type realtimePublisher interface {
	HasUser(userID uint) bool
	PublishToUser(userID uint, event string, payload interface{})
}

// EmailSubject maps a notification type to its email/push subject line.
// Unknown types fall back to the generic subject.
func EmailSubject(ntype string) string {
	switch ntype {
	case domain.NotificationTypeSwap:
		return "SkillSwap - New Swap Activity"
	case domain.NotificationTypeSession:
		return "SkillSwap - Session Reminder"
	case domain.NotificationTypeSystem:
		return "SkillSwap - System Update"
	default:
		return "SkillSwap - Notification"
	}
}

// NotificationService fans a single event out across the requested channels.
// It is strictly best-effort from the caller's point of view: every channel
// failure is logged and swallowed, and one channel failing never stops the
// remaining channels from being attempted.
type NotificationService struct {
	users userGetter
	store notificationStore
	email emailSender
	sms   smsSender
	push  pushSender
	hub   realtimePublisher
}

func NewNotificationService(users userGetter, store notificationStore, email emailSender, sms smsSender, push pushSender, hub realtimePublisher) *NotificationService {
	return &NotificationService{users: users, store: store, email: email, sms: sms, push: push, hub: hub}
}

// Dispatch delivers message to userID over the requested channels, gating
// each on the user's preference toggle and the presence of the channel's
// endpoint. An empty channel set is a no-op. Dispatch never returns an error;
// notification delivery is a side effect, not part of the triggering
// operation's critical path.
func (s *NotificationService) Dispatch(ctx context.Context, userID uint, message, ntype string, data map[string]interface{}, channels []string) {
	if len(channels) == 0 {
		return
	}
	user, err := s.users.GetByID(userID)
	if err != nil || user == nil {
		log.Printf("[Notify] user %d not found, dropping %s notification: %v", userID, ntype, err)
		return
	}
	for _, ch := range channels {
		switch ch {
		case domain.ChannelInApp:
			if user.InAppNotifications {
				s.sendInApp(user, message, ntype, data)
			}
		case domain.ChannelEmail:
			if user.EmailNotifications && user.Email != "" {
				if err := s.email.Send(ctx, user.Email, EmailSubject(ntype), message); err != nil {
					log.Printf("[Notify] email to user %d failed: %v", userID, err)
				}
			}
		case domain.ChannelSMS:
			if user.SMSNotifications && user.PhoneNumber != "" {
				if err := s.sms.Send(ctx, user.PhoneNumber, message); err != nil {
					log.Printf("[Notify] sms to user %d failed: %v", userID, err)
				}
			}
		case domain.ChannelPush:
			if user.PushNotifications && user.DeviceToken != "" {
				if err := s.push.Send(ctx, user.DeviceToken, EmailSubject(ntype), message, stringifyData(ntype, data)); err != nil {
					log.Printf("[Notify] push to user %d failed: %v", userID, err)
				}
			}
		default:
			log.Printf("[Notify] unknown channel %q requested for user %d", ch, userID)
		}
	}
}

// sendInApp persists the notification, then pushes the stored record over the
// user's room. The write must complete first so a client receiving the push
// can always refetch the record by id.
func (s *NotificationService) sendInApp(user *models.User, message, ntype string, data map[string]interface{}) {
	var payload datatypes.JSON
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			log.Printf("[Notify] marshal data for user %d: %v", user.ID, err)
		} else {
			payload = datatypes.JSON(b)
		}
	}
	n := &models.Notification{
		UserID:   user.ID,
		Message:  message,
		Type:     ntype,
		Data:     payload,
		Priority: domain.PriorityMedium,
	}
	if err := s.store.Create(n); err != nil {
		log.Printf("[Notify] persist for user %d failed: %v", user.ID, err)
		return
	}
	if s.hub != nil && s.hub.HasUser(user.ID) {
		s.hub.PublishToUser(user.ID, "newNotification", n)
	}
}

// DispatchAsync runs Dispatch on its own goroutine so request handlers never
// wait on channel adapters. Panics are contained here.
func (s *NotificationService) DispatchAsync(userID uint, message, ntype string, data map[string]interface{}, channels []string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Notify] dispatch panic for user %d: %v", userID, r)
			}
		}()
		s.Dispatch(context.Background(), userID, message, ntype, data, channels)
	}()
}

// ---- event helpers used by the business handlers ----

func (s *NotificationService) NotifySwapRequest(responderID uint, requesterName, skillOffered, skillNeeded string, swapID uint, requesterID uint) {
	s.DispatchAsync(responderID,
		fmt.Sprintf("%s wants to swap %s for %s", requesterName, skillOffered, skillNeeded),
		domain.NotificationTypeSwap,
		map[string]interface{}{"swap_id": swapID, "requester_id": requesterID},
		[]string{domain.ChannelInApp, domain.ChannelEmail})
}

func (s *NotificationService) NotifySwapStatus(otherUserID uint, actorName, status string, swapID uint) {
	var message string
	switch status {
	case domain.SwapStatusAccepted:
		message = actorName + " accepted your swap request"
	case domain.SwapStatusRejected:
		message = actorName + " declined your swap request"
	case domain.SwapStatusCompleted:
		message = "Swap with " + actorName + " has been marked as completed"
	default:
		return
	}
	s.DispatchAsync(otherUserID, message, domain.NotificationTypeSwap,
		map[string]interface{}{"swap_id": swapID, "status": status},
		[]string{domain.ChannelInApp, domain.ChannelEmail})
}

func (s *NotificationService) NotifySwapDeclined(requesterID uint, responderName string, swapID uint) {
	s.DispatchAsync(requesterID, responderName+" declined your swap request",
		domain.NotificationTypeSwap,
		map[string]interface{}{"swap_id": swapID, "status": "declined"},
		[]string{domain.ChannelInApp, domain.ChannelEmail})
}

func (s *NotificationService) NotifySessionScheduled(participantID uint, creatorName, title string, date, timeOfDay string, sessionID uint) {
	s.DispatchAsync(participantID,
		fmt.Sprintf("%s scheduled a session %q with you on %s at %s", creatorName, title, date, timeOfDay),
		domain.NotificationTypeSession,
		map[string]interface{}{"session_id": sessionID, "type": "session_scheduled"},
		[]string{domain.ChannelInApp, domain.ChannelEmail})
}

func (s *NotificationService) NotifySessionStatus(otherUserID uint, actorName, title, status string, sessionID uint) {
	s.DispatchAsync(otherUserID,
		fmt.Sprintf("%s marked the session %q as %s", actorName, title, status),
		domain.NotificationTypeSession,
		map[string]interface{}{"session_id": sessionID, "status": status},
		[]string{domain.ChannelInApp, domain.ChannelEmail})
}

func (s *NotificationService) NotifyNewMessage(receiverID uint, senderName, text string, messageID uint) {
	s.DispatchAsync(receiverID,
		fmt.Sprintf("%s sent you a message: %q", senderName, messagePreview(text)),
		domain.NotificationTypeMessage,
		map[string]interface{}{"message_id": messageID},
		[]string{domain.ChannelInApp, domain.ChannelEmail})
}

func (s *NotificationService) NotifyWelcome(userID uint, name string) {
	s.DispatchAsync(userID,
		fmt.Sprintf("Welcome to SkillSwap, %s! Your account has been created. Start exploring and connecting with other learners.", name),
		domain.NotificationTypeSystem,
		nil,
		[]string{domain.ChannelInApp, domain.ChannelEmail})
}

func (s *NotificationService) NotifyLogin(userID uint, when time.Time) {
	s.DispatchAsync(userID,
		fmt.Sprintf("Welcome back! You logged in on %s. If this wasn't you, please secure your account.", when.Format("Jan 2, 2006 15:04 MST")),
		domain.NotificationTypeSystem,
		nil,
		[]string{domain.ChannelInApp, domain.ChannelEmail})
}

// messagePreview truncates on runes so multibyte text never gets cut
// mid-character.
func messagePreview(text string) string {
	r := []rune(text)
	if len(r) <= 50 {
		return text
	}
	return string(r[:50]) + "..."
}
