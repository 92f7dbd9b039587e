package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/repository"

	"github.com/sirupsen/logrus"
)

const noteCacheTTL = 10 * time.Minute

func noteCacheKey(id uint) string {
	return fmt.Sprintf("deliverynote:%d", id)
}

// noteEvent is the payload published on the service bus for lifecycle events
type noteEvent struct {
	Event     string    `json:"event"`
	NoteID    uint      `json:"note_id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// publishNoteEvent sends a lifecycle event best-effort; delivery failures
// are logged, never surfaced to the caller
func (s *service) publishNoteEvent(ctx context.Context, event string, note *models.DeliveryNote) {
	if s.serviceBus == nil {
		return
	}
	payload := noteEvent{
		Event:     event,
		NoteID:    note.ID,
		Number:    note.Number,
		Status:    string(note.Status),
		Timestamp: time.Now().UTC(),
	}
	if err := s.serviceBus.SendMessage(ctx, payload, note.Number); err != nil {
		s.log.WithError(err).WithField("note_id", note.ID).Warn("Failed to publish delivery note event")
	}
}

// normalizeEntries prepares input entries for persistence: display positions
// follow input order, material units and entry currencies get defaults, and
// labor dates fall back to the note date.
func normalizeEntries(note *models.DeliveryNote) {
	for i := range note.Labor {
		note.Labor[i].Position = i
		if note.Labor[i].Rate.Currency == "" {
			note.Labor[i].Rate.Currency = models.DefaultCurrency
		}
		if note.Labor[i].Date.IsZero() {
			note.Labor[i].Date = note.Date
		}
	}
	for i := range note.Materials {
		note.Materials[i].Position = i
		if note.Materials[i].Unit == "" {
			note.Materials[i].Unit = models.DefaultUnit
		}
		if note.Materials[i].Price.Currency == "" {
			note.Materials[i].Price.Currency = models.DefaultCurrency
		}
	}
}

// CreateDeliveryNote creates a note against a project. The project is
// validated first, then its client; in both cases a missing record is
// not-found and an inaccessible one is forbidden. The document number is
// assigned inside the creation transaction and the total is computed from
// the entries; neither is taken from input.
func (s *service) CreateDeliveryNote(ctx context.Context, requester *models.User, input DeliveryNoteInput) (*models.DeliveryNote, error) {
	project, err := s.findProject(ctx, requester, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findClient(ctx, requester, project.ClientID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() || status == models.StatusSigned {
		return nil, ErrInvalidStatus
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	note := &models.DeliveryNote{
		Date:      date,
		ProjectID: project.ID,
		ClientID:  project.ClientID,
		UserID:    requester.ID,
		CompanyID: requester.CompanyID,
		Labor:     input.Labor,
		Materials: input.Materials,
		Notes:     input.Notes,
		Status:    status,
	}
	normalizeEntries(note)
	note.TotalAmount = note.ComputeTotal()

	scope := models.SequenceScopeFor(requester.ID, requester.CompanyID)
	year := date.UTC().Year()

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		max, err := txRepo.MaxDeliveryNoteSequence(ctx, scope, year)
		if err != nil {
			return err
		}
		note.SequenceScope = scope
		note.Number = models.FormatNumber(year, max+1)
		return txRepo.CreateDeliveryNote(ctx, note)
	})
	if err != nil {
		// A concurrent creation that took the same number trips the
		// composite unique index; surfaced as a conflict, not retried.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	created, err := s.repo.FindDeliveryNoteByID(ctx, note.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"note_id": created.ID,
		"number":  created.Number,
	}).Info("Delivery note created")
	s.publishNoteEvent(ctx, "deliverynote.created", created)

	return created, nil
}

// findNote loads a note and checks access, not-found first
func (s *service) findNote(ctx context.Context, requester *models.User, id uint) (*models.DeliveryNote, error) {
	note, err := s.repo.FindDeliveryNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authorized(requester, note.UserID, note.CompanyID) {
		return nil, ErrForbidden
	}
	return note, nil
}

// GetDeliveryNote returns a note with its relations, serving from cache
// when possible. Access is checked on cached copies too.
func (s *service) GetDeliveryNote(ctx context.Context, requester *models.User, id uint) (*models.DeliveryNote, error) {
	if s.redisClient != nil {
		if raw, err := s.redisClient.Get(ctx, noteCacheKey(id)); err == nil && raw != "" {
			var cached models.DeliveryNote
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				if !authorized(requester, cached.UserID, cached.CompanyID) {
					return nil, ErrForbidden
				}
				return &cached, nil
			}
		}
	}

	note, err := s.findNote(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	s.cacheNote(ctx, note)
	return note, nil
}

func (s *service) cacheNote(ctx context.Context, note *models.DeliveryNote) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(note)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, noteCacheKey(note.ID), string(raw), noteCacheTTL); err != nil {
		s.log.WithError(err).Warn("Failed to cache delivery note")
	}
}

func (s *service) invalidateNote(ctx context.Context, id uint) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Delete(ctx, noteCacheKey(id)); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate delivery note cache")
	}
}

func (s *service) ListDeliveryNotes(ctx context.Context, requester *models.User) ([]*models.DeliveryNote, error) {
	return s.repo.ListDeliveryNotes(ctx, scopeFor(requester))
}

func (s *service) ListArchivedDeliveryNotes(ctx context.Context, requester *models.User) ([]*models.DeliveryNote, error) {
	return s.repo.ListArchivedDeliveryNotes(ctx, scopeFor(requester))
}

// UpdateDeliveryNote replaces the mutable fields and entry collections of a
// note and recomputes its total. Signed notes reject the update before any
// other processing; the generic update path can never set status=signed.
func (s *service) UpdateDeliveryNote(ctx context.Context, requester *models.User, id uint, input DeliveryNoteInput) (*models.DeliveryNote, error) {
	note, err := s.findNote(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if note.IsSigned() {
		return nil, ErrDeliveryNoteSigned
	}

	if input.Status != "" {
		if !input.Status.Valid() || input.Status == models.StatusSigned {
			return nil, ErrInvalidStatus
		}
		note.Status = input.Status
	}

	// Reassigning the note to a different project revalidates like creation
	if input.ProjectID != 0 && input.ProjectID != note.ProjectID {
		project, err := s.findProject(ctx, requester, input.ProjectID)
		if err != nil {
			return nil, err
		}
		if _, err := s.findClient(ctx, requester, project.ClientID); err != nil {
			return nil, err
		}
		note.ProjectID = project.ID
		note.ClientID = project.ClientID
	}

	if input.Date != nil {
		note.Date = *input.Date
	}
	note.Notes = input.Notes
	note.Labor = input.Labor
	note.Materials = input.Materials
	normalizeEntries(note)
	note.TotalAmount = note.ComputeTotal()

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		if err := txRepo.ReplaceLaborEntries(ctx, note.ID, note.Labor); err != nil {
			return err
		}
		if err := txRepo.ReplaceMaterialEntries(ctx, note.ID, note.Materials); err != nil {
			return err
		}
		return txRepo.UpdateDeliveryNote(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateNote(ctx, id)
	return s.repo.FindDeliveryNoteByID(ctx, id)
}

func (s *service) ArchiveDeliveryNote(ctx context.Context, requester *models.User, id uint) error {
	note, err := s.findNote(ctx, requester, id)
	if err != nil {
		return err
	}
	if note.IsSigned() {
		return ErrDeliveryNoteSigned
	}

	if err := s.repo.SoftDeleteDeliveryNote(ctx, id); err != nil {
		return err
	}
	s.invalidateNote(ctx, id)
	return nil
}

func (s *service) RestoreDeliveryNote(ctx context.Context, requester *models.User, id uint) (*models.DeliveryNote, error) {
	note, err := s.repo.FindArchivedDeliveryNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authorized(requester, note.UserID, note.CompanyID) {
		return nil, ErrForbidden
	}

	if err := s.repo.RestoreDeliveryNote(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindDeliveryNoteByID(ctx, id)
}

func (s *service) DeleteDeliveryNote(ctx context.Context, requester *models.User, id uint) error {
	note, err := s.findNote(ctx, requester, id)
	if err != nil {
		return err
	}
	if note.IsSigned() {
		return ErrDeliveryNoteSigned
	}

	if err := s.repo.HardDeleteDeliveryNote(ctx, id); err != nil {
		return err
	}
	s.invalidateNote(ctx, id)
	return nil
}
