package handler

import (
	"errors"
	"net/http"
	"strconv"

	"skillswap/internal/domain"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SwapHandler struct {
	swaps    *repository.SwapRepository
	users    *repository.UserRepository
	notifier *service.NotificationService
}

func NewSwapHandler(swaps *repository.SwapRepository, users *repository.UserRepository, notifier *service.NotificationService) *SwapHandler {
	return &SwapHandler{swaps: swaps, users: users, notifier: notifier}
}

type CreateSwapRequest struct {
	ResponderID  uint   `json:"responder_id" binding:"required"`
	SkillOffered string `json:"skill_offered" binding:"required,max=128"`
	SkillNeeded  string `json:"skill_needed" binding:"required,max=128"`
}

type UpdateSwapStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected completed"`
}

func (h *SwapHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ResponderID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot request a swap with yourself"})
		return
	}
	if _, err := h.users.GetByID(req.ResponderID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "responder not found"})
		return
	}

	swap := &models.Swap{
		RequesterID:  userID,
		ResponderID:  req.ResponderID,
		SkillOffered: req.SkillOffered,
		SkillNeeded:  req.SkillNeeded,
		Status:       domain.SwapStatusPending,
	}
	if err := h.swaps.Create(swap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create swap"})
		return
	}

	if requester, err := h.users.GetByID(userID); err == nil {
		h.notifier.NotifySwapRequest(req.ResponderID, requester.Name, swap.SkillOffered, swap.SkillNeeded, swap.ID, userID)
	}
	c.JSON(http.StatusCreated, swap)
}

func (h *SwapHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	swaps, err := h.swaps.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load swaps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"swaps": swaps})
}

func (h *SwapHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	swap, ok := h.ownedSwap(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, swap)
}

// UpdateStatus applies a status transition. Only the responder may accept or
// reject a pending swap; completion requires an accepted swap.
func (h *SwapHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	swap, ok := h.ownedSwap(c, userID)
	if !ok {
		return
	}
	var req UpdateSwapStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isRequester := swap.RequesterID == userID
	isResponder := swap.ResponderID == userID
	if err := domain.CanTransitionSwap(swap.Status, req.Status, isRequester, isResponder); err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	swap.Status = req.Status
	if err := h.swaps.Update(swap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update swap"})
		return
	}

	otherID := swap.RequesterID
	if isRequester {
		otherID = swap.ResponderID
	}
	if actor, err := h.users.GetByID(userID); err == nil {
		if req.Status == domain.SwapStatusRejected {
			h.notifier.NotifySwapDeclined(swap.RequesterID, actor.Name, swap.ID)
		} else {
			h.notifier.NotifySwapStatus(otherID, actor.Name, req.Status, swap.ID)
		}
	}
	c.JSON(http.StatusOK, swap)
}

// Delete removes a swap. Only pending and rejected swaps can be deleted.
func (h *SwapHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	swap, ok := h.ownedSwap(c, userID)
	if !ok {
		return
	}
	isRequester := swap.RequesterID == userID
	isResponder := swap.ResponderID == userID
	if err := domain.CanDeleteSwap(swap.Status, isRequester, isResponder); err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := h.swaps.Delete(swap.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete swap"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ownedSwap loads the swap from the path and ensures the caller is a party to it.
func (h *SwapHandler) ownedSwap(c *gin.Context, userID uint) (*models.Swap, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid swap id"})
		return nil, false
	}
	swap, err := h.swaps.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "swap not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load swap"})
		return nil, false
	}
	if swap.RequesterID != userID && swap.ResponderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant in this swap"})
		return nil, false
	}
	return swap, true
}
