package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/repository"

	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository used by the service tests. It mirrors
// the persistence semantics the service relies on: soft delete via
// DeletedAt, owner-scoped listing, unscoped sequence lookups, and entry
// collections persisted separately from the note row.
type fakeRepo struct {
	nextID    uint
	users     map[uint]*models.User
	companies map[uint]*models.Company
	clients   map[uint]*models.Client
	projects  map[uint]*models.Project
	notes     map[uint]*models.DeliveryNote
	storage   []*models.StorageEntry

	updateNoteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     make(map[uint]*models.User),
		companies: make(map[uint]*models.Company),
		clients:   make(map[uint]*models.Client),
		projects:  make(map[uint]*models.Project),
		notes:     make(map[uint]*models.DeliveryNote),
	}
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func deleted(m models.Model) bool {
	return m.DeletedAt.Valid
}

func markDeleted(m *models.Model) {
	m.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
}

func inScope(scope repository.OwnerScope, userID uint, companyID *uint) bool {
	if userID == scope.UserID {
		return true
	}
	return scope.CompanyID != nil && companyID != nil && *scope.CompanyID == *companyID
}

func (f *fakeRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo repository.Repository) error) error {
	return fn(ctx, f)
}

// User operations

func (f *fakeRepo) CreateUser(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	user.ID = f.id()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) UpdateUser(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok || deleted(user.Model) {
		return nil, repository.ErrNotFound
	}
	if user.CompanyID != nil {
		user.Company = f.companies[*user.CompanyID]
	}
	return user, nil
}

func (f *fakeRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email && !deleted(user.Model) {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) SoftDeleteUser(ctx context.Context, id uint) error {
	if user, ok := f.users[id]; ok {
		markDeleted(&user.Model)
	}
	return nil
}

func (f *fakeRepo) HardDeleteUser(ctx context.Context, id uint) error {
	delete(f.users, id)
	return nil
}

// Company operations

func (f *fakeRepo) CreateCompany(ctx context.Context, company *models.Company) error {
	company.ID = f.id()
	company.CreatedAt = time.Now()
	f.companies[company.ID] = company
	return nil
}

func (f *fakeRepo) UpdateCompany(ctx context.Context, company *models.Company) error {
	f.companies[company.ID] = company
	return nil
}

func (f *fakeRepo) FindCompanyByID(ctx context.Context, id uint) (*models.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return company, nil
}

// Client operations

func (f *fakeRepo) CreateClient(ctx context.Context, client *models.Client) error {
	client.ID = f.id()
	client.CreatedAt = time.Now()
	f.clients[client.ID] = client
	return nil
}

func (f *fakeRepo) UpdateClient(ctx context.Context, client *models.Client) error {
	f.clients[client.ID] = client
	return nil
}

func (f *fakeRepo) FindClientByID(ctx context.Context, id uint) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok || deleted(client.Model) {
		return nil, repository.ErrNotFound
	}
	return client, nil
}

func (f *fakeRepo) FindArchivedClientByID(ctx context.Context, id uint) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok || !deleted(client.Model) {
		return nil, repository.ErrNotFound
	}
	return client, nil
}

func (f *fakeRepo) FindClientByName(ctx context.Context, scope repository.OwnerScope, name string) (*models.Client, error) {
	for _, client := range f.clients {
		if client.Name == name && !deleted(client.Model) && inScope(scope, client.UserID, client.CompanyID) {
			return client, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) ListClients(ctx context.Context, scope repository.OwnerScope) ([]*models.Client, error) {
	var out []*models.Client
	for _, client := range f.clients {
		if !deleted(client.Model) && inScope(scope, client.UserID, client.CompanyID) {
			out = append(out, client)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListArchivedClients(ctx context.Context, scope repository.OwnerScope) ([]*models.Client, error) {
	var out []*models.Client
	for _, client := range f.clients {
		if deleted(client.Model) && inScope(scope, client.UserID, client.CompanyID) {
			out = append(out, client)
		}
	}
	return out, nil
}

func (f *fakeRepo) SoftDeleteClient(ctx context.Context, id uint) error {
	if client, ok := f.clients[id]; ok {
		markDeleted(&client.Model)
	}
	return nil
}

func (f *fakeRepo) RestoreClient(ctx context.Context, id uint) error {
	if client, ok := f.clients[id]; ok {
		client.DeletedAt = gorm.DeletedAt{}
	}
	return nil
}

func (f *fakeRepo) HardDeleteClient(ctx context.Context, id uint) error {
	delete(f.clients, id)
	return nil
}

// Project operations

func (f *fakeRepo) CreateProject(ctx context.Context, project *models.Project) error {
	project.ID = f.id()
	project.CreatedAt = time.Now()
	f.projects[project.ID] = project
	return nil
}

func (f *fakeRepo) UpdateProject(ctx context.Context, project *models.Project) error {
	f.projects[project.ID] = project
	return nil
}

func (f *fakeRepo) FindProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok || deleted(project.Model) {
		return nil, repository.ErrNotFound
	}
	project.Client = f.clients[project.ClientID]
	return project, nil
}

func (f *fakeRepo) FindArchivedProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok || !deleted(project.Model) {
		return nil, repository.ErrNotFound
	}
	return project, nil
}

func (f *fakeRepo) FindProjectByName(ctx context.Context, scope repository.OwnerScope, name string) (*models.Project, error) {
	for _, project := range f.projects {
		if project.Name == name && !deleted(project.Model) && inScope(scope, project.UserID, project.CompanyID) {
			return project, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) ListProjects(ctx context.Context, scope repository.OwnerScope) ([]*models.Project, error) {
	var out []*models.Project
	for _, project := range f.projects {
		if !deleted(project.Model) && inScope(scope, project.UserID, project.CompanyID) {
			out = append(out, project)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListArchivedProjects(ctx context.Context, scope repository.OwnerScope) ([]*models.Project, error) {
	var out []*models.Project
	for _, project := range f.projects {
		if deleted(project.Model) && inScope(scope, project.UserID, project.CompanyID) {
			out = append(out, project)
		}
	}
	return out, nil
}

func (f *fakeRepo) SoftDeleteProject(ctx context.Context, id uint) error {
	if project, ok := f.projects[id]; ok {
		markDeleted(&project.Model)
	}
	return nil
}

func (f *fakeRepo) RestoreProject(ctx context.Context, id uint) error {
	if project, ok := f.projects[id]; ok {
		project.DeletedAt = gorm.DeletedAt{}
	}
	return nil
}

func (f *fakeRepo) HardDeleteProject(ctx context.Context, id uint) error {
	delete(f.projects, id)
	return nil
}

// DeliveryNote operations

func (f *fakeRepo) CreateDeliveryNote(ctx context.Context, note *models.DeliveryNote) error {
	for _, n := range f.notes {
		if n.SequenceScope == note.SequenceScope && n.Number == note.Number {
			return repository.ErrDuplicateKey
		}
	}
	note.ID = f.id()
	note.CreatedAt = time.Now()
	f.notes[note.ID] = note
	return nil
}

// UpdateDeliveryNote persists the note's own columns only; entry
// collections change through the Replace methods, as in the real repository
func (f *fakeRepo) UpdateDeliveryNote(ctx context.Context, note *models.DeliveryNote) error {
	if f.updateNoteErr != nil {
		return f.updateNoteErr
	}
	existing, ok := f.notes[note.ID]
	if !ok {
		return repository.ErrNotFound
	}
	clone := *note
	clone.Labor = existing.Labor
	clone.Materials = existing.Materials
	clone.DeletedAt = existing.DeletedAt
	f.notes[note.ID] = &clone
	return nil
}

func (f *fakeRepo) preloadNote(note *models.DeliveryNote) *models.DeliveryNote {
	note.Project = f.projects[note.ProjectID]
	note.Client = f.clients[note.ClientID]
	note.User = f.users[note.UserID]
	if note.User != nil && note.User.CompanyID != nil {
		note.User.Company = f.companies[*note.User.CompanyID]
	}
	if note.CompanyID != nil {
		note.Company = f.companies[*note.CompanyID]
	}
	return note
}

func (f *fakeRepo) FindDeliveryNoteByID(ctx context.Context, id uint) (*models.DeliveryNote, error) {
	note, ok := f.notes[id]
	if !ok || deleted(note.Model) {
		return nil, repository.ErrNotFound
	}
	return f.preloadNote(note), nil
}

func (f *fakeRepo) FindArchivedDeliveryNoteByID(ctx context.Context, id uint) (*models.DeliveryNote, error) {
	note, ok := f.notes[id]
	if !ok || !deleted(note.Model) {
		return nil, repository.ErrNotFound
	}
	return f.preloadNote(note), nil
}

func (f *fakeRepo) ListDeliveryNotes(ctx context.Context, scope repository.OwnerScope) ([]*models.DeliveryNote, error) {
	var out []*models.DeliveryNote
	for _, note := range f.notes {
		if !deleted(note.Model) && inScope(scope, note.UserID, note.CompanyID) {
			out = append(out, f.preloadNote(note))
		}
	}
	return out, nil
}

func (f *fakeRepo) ListArchivedDeliveryNotes(ctx context.Context, scope repository.OwnerScope) ([]*models.DeliveryNote, error) {
	var out []*models.DeliveryNote
	for _, note := range f.notes {
		if deleted(note.Model) && inScope(scope, note.UserID, note.CompanyID) {
			out = append(out, f.preloadNote(note))
		}
	}
	return out, nil
}

func (f *fakeRepo) SoftDeleteDeliveryNote(ctx context.Context, id uint) error {
	if note, ok := f.notes[id]; ok {
		markDeleted(&note.Model)
	}
	return nil
}

func (f *fakeRepo) RestoreDeliveryNote(ctx context.Context, id uint) error {
	if note, ok := f.notes[id]; ok {
		note.DeletedAt = gorm.DeletedAt{}
	}
	return nil
}

func (f *fakeRepo) HardDeleteDeliveryNote(ctx context.Context, id uint) error {
	delete(f.notes, id)
	return nil
}

// MaxDeliveryNoteSequence scans all rows regardless of soft-delete state,
// like the real unscoped query
func (f *fakeRepo) MaxDeliveryNoteSequence(ctx context.Context, scope string, year int) (int, error) {
	prefix := models.NumberPrefix(year)
	max := 0
	for _, note := range f.notes {
		if note.SequenceScope != scope || !strings.HasPrefix(note.Number, prefix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(note.Number, prefix))
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

func (f *fakeRepo) ReplaceLaborEntries(ctx context.Context, noteID uint, entries []models.LaborEntry) error {
	note, ok := f.notes[noteID]
	if !ok {
		return repository.ErrNotFound
	}
	note.Labor = entries
	return nil
}

func (f *fakeRepo) ReplaceMaterialEntries(ctx context.Context, noteID uint, entries []models.MaterialEntry) error {
	note, ok := f.notes[noteID]
	if !ok {
		return repository.ErrNotFound
	}
	note.Materials = entries
	return nil
}

func (f *fakeRepo) ListSignedNotesWithoutPDF(ctx context.Context, limit int) ([]*models.DeliveryNote, error) {
	var out []*models.DeliveryNote
	for _, note := range f.notes {
		if deleted(note.Model) || note.Status != models.StatusSigned || note.PdfURL != "" {
			continue
		}
		out = append(out, f.preloadNote(note))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Storage operations

func (f *fakeRepo) CreateStorageEntry(ctx context.Context, entry *models.StorageEntry) error {
	entry.ID = f.id()
	entry.CreatedAt = time.Now()
	f.storage = append(f.storage, entry)
	return nil
}

func (f *fakeRepo) ListStorageEntriesFor(ctx context.Context, model models.RelatedModel, id uint) ([]*models.StorageEntry, error) {
	var out []*models.StorageEntry
	for _, entry := range f.storage {
		if entry.RelatedModel == model && entry.RelatedID == id {
			out = append(out, entry)
		}
	}
	return out, nil
}

// fakeBlobstore is a recording blob store. failMatch makes uploads whose
// filename contains the substring fail; "*" fails everything.
type fakeBlobstore struct {
	stored    []string
	failMatch string
}

func (b *fakeBlobstore) Store(ctx context.Context, data []byte, filename string) (string, error) {
	if b.failMatch == "*" || (b.failMatch != "" && strings.Contains(filename, b.failMatch)) {
		return "", fmt.Errorf("pin rejected: %s", filename)
	}
	b.stored = append(b.stored, filename)
	return fmt.Sprintf("hash-%d", len(b.stored)), nil
}

func (b *fakeBlobstore) URLFor(hash string) string {
	return "https://gateway.test/ipfs/" + hash
}
