// api/handlers/user_handler.go
package handlers

import (
	"net/http"
	"time"

	"example.com/backstage/services/deliverynote/api/middleware"
	"example.com/backstage/services/deliverynote/config"
	"example.com/backstage/services/deliverynote/internal/auth"
	"example.com/backstage/services/deliverynote/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler handles account-related requests
type UserHandler struct {
	service service.Service
	jwtCfg  config.JWTConfig
	log     *logrus.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(svc service.Service, jwtCfg config.JWTConfig, log *logrus.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		jwtCfg:  jwtCfg,
		log:     log,
	}
}

// Register handles account creation
func (h *UserHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.WithError(err).Warn("Invalid registration payload")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid registration payload",
		})
		return
	}

	user, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := auth.GenerateToken(h.jwtCfg.Secret, time.Duration(h.jwtCfg.TTLHours)*time.Hour, user)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles credential verification and token issuance
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid login payload",
		})
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := auth.GenerateToken(h.jwtCfg.Secret, time.Duration(h.jwtCfg.TTLHours)*time.Hour, user)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// Profile returns the authenticated account
func (h *UserHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	profile, err := h.service.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the authenticated account's mutable fields
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid profile payload",
		})
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// AttachCompany creates a company and attaches the account to it
func (h *UserHandler) AttachCompany(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var input service.CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid company payload",
		})
		return
	}

	updated, err := h.service.AttachCompany(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Archive soft-deletes the authenticated account
func (h *UserHandler) Archive(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.service.ArchiveUser(c.Request.Context(), user.ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account archived"})
}

// Delete removes the authenticated account for good
func (h *UserHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.service.DeleteUser(c.Request.Context(), user.ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
