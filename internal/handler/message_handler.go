package handler

import (
	"net/http"
	"strconv"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/internal/ws"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages      *repository.MessageRepository
	users         *repository.UserRepository
	conversations *service.ConversationService
	notifier      *service.NotificationService
	hub           *ws.Hub
}

func NewMessageHandler(
	messages *repository.MessageRepository,
	users *repository.UserRepository,
	conversations *service.ConversationService,
	notifier *service.NotificationService,
	hub *ws.Hub,
) *MessageHandler {
	return &MessageHandler{
		messages:      messages,
		users:         users,
		conversations: conversations,
		notifier:      notifier,
		hub:           hub,
	}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Text       string `json:"text" binding:"required,max=5000"`
}

// Send persists the message, pushes it to the receiver's realtime room, and
// fires the notification dispatch without blocking the response.
func (h *MessageHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ReceiverID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}
	if _, err := h.users.GetByID(req.ReceiverID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "receiver not found"})
		return
	}

	msg := &models.Message{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
	}
	if err := h.messages.Create(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	h.hub.PublishToUser(req.ReceiverID, "newMessage", msg)
	if sender, err := h.users.GetByID(userID); err == nil {
		h.notifier.NotifyNewMessage(req.ReceiverID, sender.Name, msg.Text, msg.ID)
	}
	c.JSON(http.StatusCreated, msg)
}

// Conversations returns the caller's inbox, one row per counterpart.
func (h *MessageHandler) Conversations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	convos, err := h.conversations.ListConversations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convos})
}

// History returns the full thread between the caller and another user.
func (h *MessageHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	msgs, err := h.messages.ListBetween(userID, uint(otherID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkRead marks every message from the given sender to the caller as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	senderID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.messages.MarkReadFrom(uint(senderID), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark messages read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
