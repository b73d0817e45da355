package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"skillswap/internal/middleware"
	"skillswap/internal/repository"
	"skillswap/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserHandler struct {
	users  *repository.UserRepository
	images cloudinary.Client
}

func NewUserHandler(users *repository.UserRepository, images cloudinary.Client) *UserHandler {
	return &UserHandler{users: users, images: images}
}

type UpdateProfileRequest struct {
	Name          *string         `json:"name" binding:"omitempty,min=2,max=128"`
	Bio           *string         `json:"bio"`
	PhoneNumber   *string         `json:"phone_number" binding:"omitempty,max=32"`
	SkillsOffered *[]string       `json:"skills_offered"`
	SkillsNeeded  *[]string       `json:"skills_needed"`

	EmailNotifications *bool `json:"email_notifications"`
	SMSNotifications   *bool `json:"sms_notifications"`
	PushNotifications  *bool `json:"push_notifications"`
	InAppNotifications *bool `json:"in_app_notifications"`
}

type DeviceTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required,max=512"`
}

// Search lists users offering a given skill, best rated first. The caller is
// excluded from the results.
func (h *UserHandler) Search(c *gin.Context) {
	userID := middleware.GetUserID(c)
	skill := c.Query("skill")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	users, err := h.users.Search(userID, skill, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "page": page})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	u, err := h.users.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, u.Summary())
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateMe applies partial profile edits, including per-channel notification
// toggles.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
	}
	if req.SkillsOffered != nil {
		u.SkillsOffered = skillsJSON(*req.SkillsOffered)
	}
	if req.SkillsNeeded != nil {
		u.SkillsNeeded = skillsJSON(*req.SkillsNeeded)
	}
	if req.EmailNotifications != nil {
		u.EmailNotifications = *req.EmailNotifications
	}
	if req.SMSNotifications != nil {
		u.SMSNotifications = *req.SMSNotifications
	}
	if req.PushNotifications != nil {
		u.PushNotifications = *req.PushNotifications
	}
	if req.InAppNotifications != nil {
		u.InAppNotifications = *req.InAppNotifications
	}
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// RegisterDeviceToken stores the FCM token for push delivery.
func (h *UserHandler) RegisterDeviceToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	u.DeviceToken = req.DeviceToken
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save device token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UploadAvatar accepts a multipart "avatar" file and stores it on Cloudinary.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file required"})
		return
	}
	if fileHeader.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar must be under 5MB"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()

	url, err := h.images.UploadAvatar(c.Request.Context(), file, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	u.ProfilePic = url
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_pic": url})
}

func skillsJSON(skills []string) datatypes.JSON {
	if skills == nil {
		skills = []string{}
	}
	b, _ := json.Marshal(skills)
	return datatypes.JSON(b)
}
