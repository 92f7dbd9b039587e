// api/handlers/delivery_note_handler.go
package handlers

import (
	"fmt"
	"io"
	"net/http"

	"example.com/backstage/services/deliverynote/api/middleware"
	"example.com/backstage/services/deliverynote/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxSignatureSize bounds the signature upload (5 MiB)
const maxSignatureSize = 5 << 20

// DeliveryNoteHandler handles delivery note requests
type DeliveryNoteHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewDeliveryNoteHandler creates a new DeliveryNoteHandler instance
func NewDeliveryNoteHandler(svc service.Service, log *logrus.Logger) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{
		service: svc,
		log:     log,
	}
}

// Create handles delivery note creation
func (h *DeliveryNoteHandler) Create(c *gin.Context) {
	var input service.DeliveryNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.WithError(err).Warn("Invalid delivery note payload")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid delivery note payload",
		})
		return
	}

	note, err := h.service.CreateDeliveryNote(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// List returns the delivery notes visible to the requester
func (h *DeliveryNoteHandler) List(c *gin.Context) {
	notes, err := h.service.ListDeliveryNotes(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// ListArchived returns the archived delivery notes visible to the requester
func (h *DeliveryNoteHandler) ListArchived(c *gin.Context) {
	notes, err := h.service.ListArchivedDeliveryNotes(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// Get returns a single delivery note with its relations
func (h *DeliveryNoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	note, err := h.service.GetDeliveryNote(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// Update handles delivery note updates
func (h *DeliveryNoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input service.DeliveryNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid delivery note payload",
		})
		return
	}

	note, err := h.service.UpdateDeliveryNote(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// Archive soft-deletes a delivery note
func (h *DeliveryNoteHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.ArchiveDeliveryNote(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery note archived"})
}

// Restore brings an archived delivery note back
func (h *DeliveryNoteHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	note, err := h.service.RestoreDeliveryNote(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// Delete removes a delivery note for good
func (h *DeliveryNoteHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteDeliveryNote(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery note deleted"})
}

// Sign handles the signing request: multipart form with a "signature" image
// and an optional "signed_by" field
func (h *DeliveryNoteHandler) Sign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// A missing file is passed through as empty bytes so the service checks
	// existence and ownership before rejecting the upload.
	var data []byte
	var filename string
	if fileHeader, err := c.FormFile("signature"); err == nil {
		if fileHeader.Size > maxSignatureSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Signature file too large",
			})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		defer file.Close()

		if data, err = io.ReadAll(file); err != nil {
			respondError(c, h.log, err)
			return
		}
		filename = fileHeader.Filename
	}

	signedBy := c.PostForm("signed_by")

	note, err := h.service.SignDeliveryNote(c.Request.Context(), middleware.CurrentUser(c), id, data, filename, signedBy)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Delivery note signed",
		"deliveryNote": note,
	})
}

// PDF returns the document for a note: a redirect to the stored URL when
// one exists, otherwise the freshly rendered bytes as an attachment
func (h *DeliveryNoteHandler) PDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.DeliveryNotePDF(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if result.URL != "" {
		c.Redirect(http.StatusFound, result.URL)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}
