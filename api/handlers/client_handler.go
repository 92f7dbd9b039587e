// api/handlers/client_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"example.com/backstage/services/deliverynote/api/middleware"
	"example.com/backstage/services/deliverynote/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ClientHandler handles client-related requests
type ClientHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewClientHandler creates a new ClientHandler instance
func NewClientHandler(svc service.Service, log *logrus.Logger) *ClientHandler {
	return &ClientHandler{
		service: svc,
		log:     log,
	}
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid id",
		})
		return 0, false
	}
	return uint(id), true
}

// Create handles client creation
func (h *ClientHandler) Create(c *gin.Context) {
	var input service.ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid client payload",
		})
		return
	}

	client, err := h.service.CreateClient(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// List returns the clients visible to the requester
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.service.ListClients(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// ListArchived returns the archived clients visible to the requester
func (h *ClientHandler) ListArchived(c *gin.Context) {
	clients, err := h.service.ListArchivedClients(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Get returns a single client
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	client, err := h.service.GetClient(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Update handles client updates
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input service.ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid client payload",
		})
		return
	}

	client, err := h.service.UpdateClient(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Archive soft-deletes a client
func (h *ClientHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.ArchiveClient(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client archived"})
}

// Restore brings an archived client back
func (h *ClientHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	client, err := h.service.RestoreClient(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Delete removes a client for good
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteClient(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}
