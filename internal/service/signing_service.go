package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"example.com/backstage/services/deliverynote/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SignDeliveryNote runs the signing workflow. Preconditions in order: the
// note exists, the requester may access it, it is not already signed, and a
// signature file was supplied. The workflow is deliberately non-atomic: a
// failed signature upload leaves the note untouched, while a failure after
// the signed state is persisted is reported to the caller and leaves a
// signed note without a PDF URL. That gap is picked up later by the PDF
// fetch path and the background sweep.
func (s *service) SignDeliveryNote(ctx context.Context, requester *models.User, id uint, signature []byte, filename, signedBy string) (*models.DeliveryNote, error) {
	note, err := s.findNote(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if note.IsSigned() {
		return nil, ErrAlreadySigned
	}
	if len(signature) == 0 {
		return nil, ErrSignatureRequired
	}

	if filename == "" {
		filename = "signature.png"
	}
	storedName := fmt.Sprintf("%s-%s%s", note.Number, uuid.NewString(), path.Ext(filename))

	hash, err := s.blobstore.Store(ctx, signature, storedName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	signatureURL := s.blobstore.URLFor(hash)

	if err := s.recordStorage(ctx, note, signatureURL, storedName, models.FileTypeSignature, hash); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note.SignatureImage = signatureURL
	note.SignedBy = signedBy
	note.SignedAt = &now
	note.Status = models.StatusSigned
	note.TotalAmount = note.ComputeTotal()

	if err := s.repo.UpdateDeliveryNote(ctx, note); err != nil {
		return nil, err
	}
	s.invalidateNote(ctx, id)

	s.log.WithFields(logrus.Fields{
		"note_id": note.ID,
		"number":  note.Number,
	}).Info("Delivery note signed")

	// The note stays signed from here on. A PDF failure is still an
	// operation failure for the caller; the gap it leaves is repaired by
	// the fetch path and the background sweep.
	if err := s.ensurePDF(ctx, note); err != nil {
		s.log.WithError(err).WithField("note_id", note.ID).
			Warn("Signed note left without PDF, pending recovery")
		return nil, err
	}

	signed, err := s.repo.FindDeliveryNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishNoteEvent(ctx, "deliverynote.signed", signed)

	return signed, nil
}

// ensurePDF renders the note, uploads the document and persists its URL
func (s *service) ensurePDF(ctx context.Context, note *models.DeliveryNote) error {
	data, err := s.renderer.Render(note)
	if err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}

	pdfName := fmt.Sprintf("delivery-note-%s.pdf", note.Number)
	hash, err := s.blobstore.Store(ctx, data, pdfName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	pdfURL := s.blobstore.URLFor(hash)

	if err := s.recordStorage(ctx, note, pdfURL, pdfName, models.FileTypePDF, hash); err != nil {
		return err
	}

	note.PdfURL = pdfURL
	if err := s.repo.UpdateDeliveryNote(ctx, note); err != nil {
		return err
	}
	s.invalidateNote(ctx, note.ID)

	return nil
}

// recordStorage writes the ledger row that traces an uploaded blob back to
// its note
func (s *service) recordStorage(ctx context.Context, note *models.DeliveryNote, url, filename string, fileType models.FileType, hash string) error {
	entry := &models.StorageEntry{
		URL:          url,
		Filename:     filename,
		FileType:     fileType,
		IpfsHash:     hash,
		UserID:       note.UserID,
		RelatedModel: models.RelatedDeliveryNote,
		RelatedID:    note.ID,
	}
	return s.repo.CreateStorageEntry(ctx, entry)
}

// DeliveryNotePDF returns the document for a note. A stored URL is
// preferred; a signed note whose PDF upload failed is repaired on the spot
// when possible, and otherwise the document is rendered on demand.
func (s *service) DeliveryNotePDF(ctx context.Context, requester *models.User, id uint) (*PDFResult, error) {
	note, err := s.findNote(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	if note.PdfURL != "" {
		return &PDFResult{URL: note.PdfURL}, nil
	}

	filename := fmt.Sprintf("delivery-note-%s.pdf", note.Number)

	if note.IsSigned() {
		if err := s.ensurePDF(ctx, note); err == nil {
			return &PDFResult{URL: note.PdfURL}, nil
		}
		s.log.WithField("note_id", note.ID).Warn("PDF recovery failed, rendering on demand")
	}

	data, err := s.renderer.Render(note)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	return &PDFResult{Data: data, Filename: filename}, nil
}

// RecoverPendingPDFs finds signed notes whose PDF upload never completed
// and retries them. Returns how many were repaired; individual failures are
// logged and left for the next sweep.
func (s *service) RecoverPendingPDFs(ctx context.Context, limit int) (int, error) {
	notes, err := s.repo.ListSignedNotesWithoutPDF(ctx, limit)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, note := range notes {
		if err := s.ensurePDF(ctx, note); err != nil {
			s.log.WithError(err).WithField("note_id", note.ID).Warn("PDF recovery attempt failed")
			continue
		}
		recovered++
	}

	if len(notes) > 0 {
		s.log.WithFields(logrus.Fields{
			"pending":   len(notes),
			"recovered": recovered,
		}).Info("PDF recovery sweep finished")
	}

	return recovered, nil
}
