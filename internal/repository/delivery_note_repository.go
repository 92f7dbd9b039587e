package repository

import (
	"context"

	"example.com/backstage/services/deliverynote/internal/models"

	"gorm.io/gorm"
)

// notePreloads attaches the relations a fully populated note carries:
// project, client, issuing user with their company, and the ordered entry
// collections. Entry order is display-significant, so entries always come
// back sorted by position.
func notePreloads(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Project").
		Preload("Client").
		Preload("User").
		Preload("User.Company").
		Preload("Company").
		Preload("Labor", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// DeliveryNote operations implementation

func (r *repo) CreateDeliveryNote(ctx context.Context, note *models.DeliveryNote) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(note).Error)
}

// UpdateDeliveryNote persists the note's own columns. Associations are
// never written through this path; entry collections change only via the
// Replace methods.
func (r *repo) UpdateDeliveryNote(ctx context.Context, note *models.DeliveryNote) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.
		Omit("Project", "Client", "User", "Company", "Labor", "Materials").
		Save(note).Error)
}

func (r *repo) FindDeliveryNoteByID(ctx context.Context, id uint) (*models.DeliveryNote, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var note models.DeliveryNote
	if err := notePreloads(gormDB).First(&note, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &note, nil
}

func (r *repo) FindArchivedDeliveryNoteByID(ctx context.Context, id uint) (*models.DeliveryNote, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var note models.DeliveryNote
	query := notePreloads(gormDB.Unscoped().Where("delivery_notes.deleted_at IS NOT NULL"))
	if err := query.First(&note, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &note, nil
}

func (r *repo) ListDeliveryNotes(ctx context.Context, scope OwnerScope) ([]*models.DeliveryNote, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var notes []*models.DeliveryNote
	query := ownerScoped(notePreloads(gormDB), scope)
	if err := query.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, translateError(err)
	}

	return notes, nil
}

func (r *repo) ListArchivedDeliveryNotes(ctx context.Context, scope OwnerScope) ([]*models.DeliveryNote, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var notes []*models.DeliveryNote
	query := ownerScoped(notePreloads(gormDB.Unscoped().Where("delivery_notes.deleted_at IS NOT NULL")), scope)
	if err := query.Order("delivery_notes.deleted_at DESC").Find(&notes).Error; err != nil {
		return nil, translateError(err)
	}

	return notes, nil
}

func (r *repo) SoftDeleteDeliveryNote(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Delete(&models.DeliveryNote{}, id).Error)
}

func (r *repo) RestoreDeliveryNote(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Unscoped().Model(&models.DeliveryNote{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error)
}

// HardDeleteDeliveryNote removes the note and its entry rows for good.
// Storage ledger rows are kept: pinned blobs outlive the note.
func (r *repo) HardDeleteDeliveryNote(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_note_id = ?", id).Delete(&models.LaborEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("delivery_note_id = ?", id).Delete(&models.MaterialEntry{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.DeliveryNote{}, id).Error
	}))
}

// MaxDeliveryNoteSequence returns the highest sequence value already
// assigned within a numbering partition and year. The comparison parses
// the numeric suffix rather than string-sorting, so sequences past 9999
// stay ordered. Archived and deleted notes count: assigned numbers are
// never reused.
func (r *repo) MaxDeliveryNoteSequence(ctx context.Context, scope string, year int) (int, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return 0, err
	}

	prefix := models.NumberPrefix(year)

	var max int
	err = gormDB.Unscoped().Model(&models.DeliveryNote{}).
		Where("sequence_scope = ? AND number LIKE ?", scope, prefix+"%").
		Select("COALESCE(MAX(CAST(SUBSTRING(number FROM ?) AS INTEGER)), 0)", len(prefix)+1).
		Scan(&max).Error
	if err != nil {
		return 0, translateError(err)
	}

	return max, nil
}

// ReplaceLaborEntries swaps the full labor collection of a note. Entry
// rows are plain (no soft delete): the old rows are gone once replaced.
func (r *repo) ReplaceLaborEntries(ctx context.Context, noteID uint, entries []models.LaborEntry) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_note_id = ?", noteID).Delete(&models.LaborEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].ID = 0
			entries[i].DeliveryNoteID = noteID
			entries[i].Position = i
		}
		return tx.Create(&entries).Error
	}))
}

// ReplaceMaterialEntries swaps the full material collection of a note
func (r *repo) ReplaceMaterialEntries(ctx context.Context, noteID uint, entries []models.MaterialEntry) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_note_id = ?", noteID).Delete(&models.MaterialEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].ID = 0
			entries[i].DeliveryNoteID = noteID
			entries[i].Position = i
		}
		return tx.Create(&entries).Error
	}))
}

// ListSignedNotesWithoutPDF finds signed notes whose PDF upload never
// completed. These are the partial outcomes the signing workflow can leave
// behind; the background sweep re-renders them.
func (r *repo) ListSignedNotesWithoutPDF(ctx context.Context, limit int) ([]*models.DeliveryNote, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var notes []*models.DeliveryNote
	query := notePreloads(gormDB).
		Where("status = ? AND (pdf_url IS NULL OR pdf_url = '')", models.StatusSigned).
		Order("signed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&notes).Error; err != nil {
		return nil, translateError(err)
	}

	return notes, nil
}

// Storage operations implementation

func (r *repo) CreateStorageEntry(ctx context.Context, entry *models.StorageEntry) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(entry).Error)
}

func (r *repo) ListStorageEntriesFor(ctx context.Context, model models.RelatedModel, id uint) ([]*models.StorageEntry, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var entries []*models.StorageEntry
	query := gormDB.Where("related_model = ? AND related_id = ?", model, id).Order("created_at ASC")
	if err := query.Find(&entries).Error; err != nil {
		return nil, translateError(err)
	}

	return entries, nil
}
