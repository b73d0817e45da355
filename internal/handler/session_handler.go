package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"skillswap/internal/domain"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SessionHandler struct {
	sessions *repository.SessionRepository
	users    *repository.UserRepository
	notifier *service.NotificationService
}

func NewSessionHandler(sessions *repository.SessionRepository, users *repository.UserRepository, notifier *service.NotificationService) *SessionHandler {
	return &SessionHandler{sessions: sessions, users: users, notifier: notifier}
}

type CreateSessionRequest struct {
	ParticipantID uint   `json:"participant_id" binding:"required"`
	Title         string `json:"title" binding:"required,max=255"`
	Date          string `json:"date" binding:"required"` // "2006-01-02"
	Time          string `json:"time" binding:"required"` // "15:04"
	Mode          string `json:"mode" binding:"required,oneof=online offline"`
	Location      string `json:"location" binding:"max=255"`
	MeetingLink   string `json:"meeting_link" binding:"max=512"`
	Notes         string `json:"notes"`
	SkillOffered  string `json:"skill_offered" binding:"required,max=128"`
	SkillNeeded   string `json:"skill_needed" binding:"required,max=128"`
}

type UpdateSessionRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Mode        *string `json:"mode" binding:"omitempty,oneof=online offline"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
	MeetingLink *string `json:"meeting_link" binding:"omitempty,max=512"`
	Notes       *string `json:"notes"`
}

type UpdateSessionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ParticipantID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot schedule a session with yourself"})
		return
	}
	if _, err := h.users.GetByID(req.ParticipantID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time, expected HH:MM"})
		return
	}
	if req.Mode == domain.SessionModeOnline && req.MeetingLink == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meeting_link required for online sessions"})
		return
	}
	if req.Mode == domain.SessionModeOffline && req.Location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location required for offline sessions"})
		return
	}

	sess := &models.Session{
		CreatorID:     userID,
		ParticipantID: req.ParticipantID,
		Title:         req.Title,
		Date:          date,
		Time:          req.Time,
		Mode:          req.Mode,
		Location:      req.Location,
		MeetingLink:   req.MeetingLink,
		Notes:         req.Notes,
		Status:        domain.SessionStatusPending,
		SkillOffered:  req.SkillOffered,
		SkillNeeded:   req.SkillNeeded,
	}
	if err := h.sessions.Create(sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	if creator, err := h.users.GetByID(userID); err == nil {
		h.notifier.NotifySessionScheduled(req.ParticipantID, creator.Name, sess.Title, req.Date, req.Time, sess.ID)
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *SessionHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sessions, err := h.sessions.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) Upcoming(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 1 || limit > 50 {
		limit = 5
	}
	sessions, err := h.sessions.ListUpcoming(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sess, ok := h.ownedSession(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Update edits session details. Only the creator may edit, and only while the
// session is pending or confirmed.
func (h *SessionHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sess, ok := h.ownedSession(c, userID)
	if !ok {
		return
	}
	if err := domain.CanEditSession(sess.Status, sess.CreatorID == userID); err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		sess.Title = *req.Title
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		sess.Date = date
	}
	if req.Time != nil {
		if _, err := time.Parse("15:04", *req.Time); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time, expected HH:MM"})
			return
		}
		sess.Time = *req.Time
	}
	if req.Mode != nil {
		sess.Mode = *req.Mode
	}
	if req.Location != nil {
		sess.Location = *req.Location
	}
	if req.MeetingLink != nil {
		sess.MeetingLink = *req.MeetingLink
	}
	if req.Notes != nil {
		sess.Notes = *req.Notes
	}
	if sess.Mode == domain.SessionModeOnline && sess.MeetingLink == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meeting_link required for online sessions"})
		return
	}
	if sess.Mode == domain.SessionModeOffline && sess.Location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location required for offline sessions"})
		return
	}
	if err := h.sessions.Update(sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sess, ok := h.ownedSession(c, userID)
	if !ok {
		return
	}
	var req UpdateSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isCreator := sess.CreatorID == userID
	isParticipant := sess.ParticipantID == userID
	if err := domain.CanTransitionSession(sess.Status, req.Status, isCreator, isParticipant); err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	sess.Status = req.Status
	if err := h.sessions.Update(sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update session"})
		return
	}

	otherID := sess.CreatorID
	if isCreator {
		otherID = sess.ParticipantID
	}
	if actor, err := h.users.GetByID(userID); err == nil {
		h.notifier.NotifySessionStatus(otherID, actor.Name, sess.Title, req.Status, sess.ID)
	}
	c.JSON(http.StatusOK, sess)
}

// Cancel marks the session cancelled rather than deleting the row, so both
// participants keep the history.
func (h *SessionHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sess, ok := h.ownedSession(c, userID)
	if !ok {
		return
	}
	isCreator := sess.CreatorID == userID
	isParticipant := sess.ParticipantID == userID
	if err := domain.CanTransitionSession(sess.Status, domain.SessionStatusCancelled, isCreator, isParticipant); err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	sess.Status = domain.SessionStatusCancelled
	if err := h.sessions.Update(sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel session"})
		return
	}

	otherID := sess.CreatorID
	if isCreator {
		otherID = sess.ParticipantID
	}
	if actor, err := h.users.GetByID(userID); err == nil {
		h.notifier.NotifySessionStatus(otherID, actor.Name, sess.Title, domain.SessionStatusCancelled, sess.ID)
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *SessionHandler) ownedSession(c *gin.Context, userID uint) (*models.Session, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}
	sess, err := h.sessions.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return nil, false
	}
	if sess.CreatorID != userID && sess.ParticipantID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant in this session"})
		return nil, false
	}
	return sess, true
}
