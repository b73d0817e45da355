package service

import (
	"testing"
	"time"

	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageLister struct {
	msgs []models.Message
	err  error
}

func (f *fakeMessageLister) ListInvolving(userID uint) ([]models.Message, error) {
	return f.msgs, f.err
}

type fakeUserBatchGetter struct {
	users []models.User
}

func (f *fakeUserBatchGetter) GetByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func at(min int) time.Time {
	return time.Date(2026, 3, 1, 12, min, 0, 0, time.UTC)
}

func TestListConversationsGroupsAndCounts(t *testing.T) {
	// A(1) <-> B(2): B sent two unread to A, A replied once.
	// A(1) <-> C(3): single read message from C.
	msgs := []models.Message{
		{ID: 5, SenderID: 2, ReceiverID: 1, Text: "latest from B", CreatedAt: at(30)},
		{ID: 4, SenderID: 3, ReceiverID: 1, Text: "hi from C", IsRead: true, CreatedAt: at(20)},
		{ID: 3, SenderID: 1, ReceiverID: 2, Text: "reply to B", IsRead: true, CreatedAt: at(10)},
		{ID: 2, SenderID: 2, ReceiverID: 1, Text: "first from B", CreatedAt: at(5)},
	}
	users := &fakeUserBatchGetter{users: []models.User{
		{ID: 2, Name: "Brian", Email: "brian@example.com"},
		{ID: 3, Name: "Carol", Email: "carol@example.com"},
	}}
	svc := NewConversationService(&fakeMessageLister{msgs: msgs}, users)

	convos, err := svc.ListConversations(1)
	require.NoError(t, err)
	require.Len(t, convos, 2)

	// Most recent thread first.
	assert.Equal(t, uint(2), convos[0].CounterpartID)
	assert.Equal(t, "Brian", convos[0].Counterpart.Name)
	assert.Equal(t, uint(5), convos[0].LastMessage.ID)
	assert.Equal(t, 2, convos[0].UnreadCount)

	assert.Equal(t, uint(3), convos[1].CounterpartID)
	assert.Equal(t, "Carol", convos[1].Counterpart.Name)
	assert.Equal(t, uint(4), convos[1].LastMessage.ID)
	assert.Equal(t, 0, convos[1].UnreadCount)
}

func TestListConversationsOwnUnreadMessagesDoNotCount(t *testing.T) {
	// Messages the user sent are never counted as unread, even when the
	// receiver has not read them yet.
	msgs := []models.Message{
		{ID: 1, SenderID: 1, ReceiverID: 2, Text: "sent by me", CreatedAt: at(1)},
	}
	svc := NewConversationService(&fakeMessageLister{msgs: msgs}, &fakeUserBatchGetter{})

	convos, err := svc.ListConversations(1)
	require.NoError(t, err)
	require.Len(t, convos, 1)
	assert.Equal(t, 0, convos[0].UnreadCount)
}

func TestListConversationsEmptyHistory(t *testing.T) {
	svc := NewConversationService(&fakeMessageLister{}, &fakeUserBatchGetter{})
	convos, err := svc.ListConversations(1)
	require.NoError(t, err)
	assert.NotNil(t, convos)
	assert.Empty(t, convos)
}

func TestListConversationsCapped(t *testing.T) {
	var msgs []models.Message
	for i := 0; i < 60; i++ {
		msgs = append(msgs, models.Message{
			ID:         uint(i + 1),
			SenderID:   uint(i + 2),
			ReceiverID: 1,
			CreatedAt:  at(i),
		})
	}
	svc := NewConversationService(&fakeMessageLister{msgs: msgs}, &fakeUserBatchGetter{})

	convos, err := svc.ListConversations(1)
	require.NoError(t, err)
	assert.Len(t, convos, maxConversations)
	// The newest threads survive the cut.
	assert.Equal(t, uint(61), convos[0].CounterpartID)
}
