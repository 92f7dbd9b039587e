// api/handlers/project_handler.go
package handlers

import (
	"net/http"

	"example.com/backstage/services/deliverynote/api/middleware"
	"example.com/backstage/services/deliverynote/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(svc service.Service, log *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: svc,
		log:     log,
	}
}

// Create handles project creation
func (h *ProjectHandler) Create(c *gin.Context) {
	var input service.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid project payload",
		})
		return
	}

	project, err := h.service.CreateProject(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// List returns the projects visible to the requester
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ListArchived returns the archived projects visible to the requester
func (h *ProjectHandler) ListArchived(c *gin.Context) {
	projects, err := h.service.ListArchivedProjects(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Get returns a single project
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	project, err := h.service.GetProject(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Update handles project updates
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input service.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid project payload",
		})
		return
	}

	project, err := h.service.UpdateProject(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Archive soft-deletes a project
func (h *ProjectHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.ArchiveProject(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project archived"})
}

// Restore brings an archived project back
func (h *ProjectHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	project, err := h.service.RestoreProject(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Delete removes a project for good
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
