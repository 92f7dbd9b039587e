package handlers

import (
	"errors"
	"net/http"

	"example.com/backstage/services/deliverynote/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError translates service errors into HTTP responses. Every mapped
// error carries a machine-readable code alongside the message.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
			"code":  "not_found",
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
			"code":  "forbidden",
		})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"code":  "conflict",
		})
	case errors.Is(err, service.ErrDeliveryNoteSigned):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  "delivery_note_signed",
		})
	case errors.Is(err, service.ErrAlreadySigned):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  "already_signed",
		})
	case errors.Is(err, service.ErrSignatureRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  "signature_required",
		})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  "invalid_status",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
			"code":  "invalid_credentials",
		})
	case errors.Is(err, service.ErrExternalService):
		log.WithError(err).Error("External service failure")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"code":  "external_service_error",
		})
	default:
		log.WithError(err).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  "internal_error",
		})
	}
}
