package service

import (
	"sort"

	"skillswap/internal/models"
)

const maxConversations = 50

type messageLister interface {
	ListInvolving(userID uint) ([]models.Message, error)
}

type userBatchGetter interface {
	GetByIDs(ids []uint) ([]models.User, error)
}

// ConversationService derives per-counterpart threads from the raw message
// log. Nothing is cached; every call reflects the full current history.
type ConversationService struct {
	messages messageLister
	users    userBatchGetter
}

func NewConversationService(messages messageLister, users userBatchGetter) *ConversationService {
	return &ConversationService{messages: messages, users: users}
}

// ListConversations groups the user's messages by the other participant and
// returns one row per counterpart with the latest message and the count of
// unread messages addressed to the user, most recent thread first, capped at
// 50. A user with no history gets an empty slice.
func (s *ConversationService) ListConversations(userID uint) ([]models.Conversation, error) {
	msgs, err := s.messages.ListInvolving(userID)
	if err != nil {
		return nil, err
	}
	// First pass: group by counterpart, tracking last message and unread count.
	groups := make(map[uint]*models.Conversation)
	for i := range msgs {
		m := msgs[i]
		counterpart := m.SenderID
		if m.SenderID == userID {
			counterpart = m.ReceiverID
		}
		g, ok := groups[counterpart]
		if !ok {
			g = &models.Conversation{CounterpartID: counterpart}
			groups[counterpart] = g
		}
		if g.LastMessage.ID == 0 || m.CreatedAt.After(g.LastMessage.CreatedAt) {
			g.LastMessage = m
		}
		if m.ReceiverID == userID && !m.IsRead {
			g.UnreadCount++
		}
	}
	conversations := make([]models.Conversation, 0, len(groups))
	for _, g := range groups {
		conversations = append(conversations, *g)
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})
	if len(conversations) > maxConversations {
		conversations = conversations[:maxConversations]
	}
	// Second pass: attach counterpart profile summaries.
	ids := make([]uint, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.CounterpartID)
	}
	users, err := s.users.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range conversations {
		if u, ok := byID[conversations[i].CounterpartID]; ok {
			conversations[i].Counterpart = u.Summary()
		}
	}
	return conversations, nil
}
