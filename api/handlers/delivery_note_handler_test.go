package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"example.com/backstage/services/deliverynote/api/middleware"
	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// signStub overrides only the signing operation; the embedded interface
// leaves everything else unimplemented.
type signStub struct {
	service.Service
	signFn func(ctx context.Context, requester *models.User, id uint, signature []byte, filename, signedBy string) (*models.DeliveryNote, error)
}

func (s *signStub) SignDeliveryNote(ctx context.Context, requester *models.User, id uint, signature []byte, filename, signedBy string) (*models.DeliveryNote, error) {
	return s.signFn(ctx, requester, id, signature, filename, signedBy)
}

func newSignRouter(t *testing.T, svc service.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	h := NewDeliveryNoteHandler(svc, log)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, &models.User{Model: models.Model{ID: 1}})
	})
	r.POST("/deliverynotes/:id/sign", h.Sign)
	return r
}

func multipartSignature(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("signature", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestSignMissingFileReachesService(t *testing.T) {
	var gotSignature []byte
	called := false
	svc := &signStub{
		signFn: func(_ context.Context, _ *models.User, id uint, signature []byte, _, _ string) (*models.DeliveryNote, error) {
			called = true
			gotSignature = signature
			if id == 9999 {
				return nil, service.ErrNotFound
			}
			return nil, service.ErrSignatureRequired
		},
	}
	r := newSignRouter(t, svc)

	// No multipart body at all: a missing note still answers 404, not 400
	req := httptest.NewRequest(http.MethodPost, "/deliverynotes/9999/sign", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.True(t, called)
	require.Empty(t, gotSignature)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// An existing note without a file gets the missing-signature rejection
	req = httptest.NewRequest(http.MethodPost, "/deliverynotes/1/sign", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "signature_required", body["code"])
}

func TestSignResponseShape(t *testing.T) {
	svc := &signStub{
		signFn: func(_ context.Context, _ *models.User, id uint, signature []byte, _, _ string) (*models.DeliveryNote, error) {
			return &models.DeliveryNote{
				Model:  models.Model{ID: id},
				Number: "DN-2026-0001",
				Status: models.StatusSigned,
			}, nil
		},
	}
	r := newSignRouter(t, svc)

	body, contentType := multipartSignature(t, "signature.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/deliverynotes/1/sign", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Message      string               `json:"message"`
		DeliveryNote *models.DeliveryNote `json:"deliveryNote"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Delivery note signed", resp.Message)
	require.NotNil(t, resp.DeliveryNote)
	require.Equal(t, "DN-2026-0001", resp.DeliveryNote.Number)
	require.Equal(t, models.StatusSigned, resp.DeliveryNote.Status)
}
