package repository

import (
	"context"

	"example.com/backstage/services/deliverynote/internal/database"
	"example.com/backstage/services/deliverynote/internal/models"

	"gorm.io/gorm"
)

// OwnerScope restricts queries to the resources a requester can see:
// records owned by the user directly, or shared at company scope when the
// user belongs to one.
type OwnerScope struct {
	UserID    uint
	CompanyID *uint
}

// Repository provides data access methods
type Repository interface {
	// Transaction support
	WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo Repository) error) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	SoftDeleteUser(ctx context.Context, id uint) error
	HardDeleteUser(ctx context.Context, id uint) error

	// Company operations
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, company *models.Company) error
	FindCompanyByID(ctx context.Context, id uint) (*models.Company, error)

	// Client operations
	CreateClient(ctx context.Context, client *models.Client) error
	UpdateClient(ctx context.Context, client *models.Client) error
	FindClientByID(ctx context.Context, id uint) (*models.Client, error)
	FindArchivedClientByID(ctx context.Context, id uint) (*models.Client, error)
	FindClientByName(ctx context.Context, scope OwnerScope, name string) (*models.Client, error)
	ListClients(ctx context.Context, scope OwnerScope) ([]*models.Client, error)
	ListArchivedClients(ctx context.Context, scope OwnerScope) ([]*models.Client, error)
	SoftDeleteClient(ctx context.Context, id uint) error
	RestoreClient(ctx context.Context, id uint) error
	HardDeleteClient(ctx context.Context, id uint) error

	// Project operations
	CreateProject(ctx context.Context, project *models.Project) error
	UpdateProject(ctx context.Context, project *models.Project) error
	FindProjectByID(ctx context.Context, id uint) (*models.Project, error)
	FindArchivedProjectByID(ctx context.Context, id uint) (*models.Project, error)
	FindProjectByName(ctx context.Context, scope OwnerScope, name string) (*models.Project, error)
	ListProjects(ctx context.Context, scope OwnerScope) ([]*models.Project, error)
	ListArchivedProjects(ctx context.Context, scope OwnerScope) ([]*models.Project, error)
	SoftDeleteProject(ctx context.Context, id uint) error
	RestoreProject(ctx context.Context, id uint) error
	HardDeleteProject(ctx context.Context, id uint) error

	// DeliveryNote operations
	CreateDeliveryNote(ctx context.Context, note *models.DeliveryNote) error
	UpdateDeliveryNote(ctx context.Context, note *models.DeliveryNote) error
	FindDeliveryNoteByID(ctx context.Context, id uint) (*models.DeliveryNote, error)
	FindArchivedDeliveryNoteByID(ctx context.Context, id uint) (*models.DeliveryNote, error)
	ListDeliveryNotes(ctx context.Context, scope OwnerScope) ([]*models.DeliveryNote, error)
	ListArchivedDeliveryNotes(ctx context.Context, scope OwnerScope) ([]*models.DeliveryNote, error)
	SoftDeleteDeliveryNote(ctx context.Context, id uint) error
	RestoreDeliveryNote(ctx context.Context, id uint) error
	HardDeleteDeliveryNote(ctx context.Context, id uint) error
	MaxDeliveryNoteSequence(ctx context.Context, scope string, year int) (int, error)
	ReplaceLaborEntries(ctx context.Context, noteID uint, entries []models.LaborEntry) error
	ReplaceMaterialEntries(ctx context.Context, noteID uint, entries []models.MaterialEntry) error
	ListSignedNotesWithoutPDF(ctx context.Context, limit int) ([]*models.DeliveryNote, error)

	// Storage operations
	CreateStorageEntry(ctx context.Context, entry *models.StorageEntry) error
	ListStorageEntriesFor(ctx context.Context, model models.RelatedModel, id uint) ([]*models.StorageEntry, error)
}

// repo is an implementation of the Repository interface
type repo struct {
	db database.DB
}

// dbWrapper lets a transaction handle satisfy the database.DB interface
type dbWrapper struct {
	db *gorm.DB
}

func (w *dbWrapper) DB() (*gorm.DB, error) {
	return w.db, nil
}

func (w *dbWrapper) Close() error {
	return nil
}

// NewRepository creates a new repository instance
func NewRepository(db database.DB) Repository {
	return &repo{
		db: db,
	}
}

// WithTransaction executes the given function within a database transaction
func (r *repo) WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo Repository) error) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return gormDB.Transaction(func(tx *gorm.DB) error {
		txRepo := &repo{
			db: &dbWrapper{db: tx},
		}
		return fn(ctx, txRepo)
	})
}

// ownerScoped applies the visibility predicate: owned by the user, or
// shared at company scope
func ownerScoped(query *gorm.DB, scope OwnerScope) *gorm.DB {
	if scope.CompanyID != nil {
		return query.Where("user_id = ? OR company_id = ?", scope.UserID, *scope.CompanyID)
	}
	return query.Where("user_id = ?", scope.UserID)
}

// User operations implementation

func (r *repo) CreateUser(ctx context.Context, user *models.User) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(user).Error)
}

func (r *repo) UpdateUser(ctx context.Context, user *models.User) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Omit("Company").Save(user).Error)
}

func (r *repo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := gormDB.Preload("Company").First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &user, nil
}

func (r *repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := gormDB.Preload("Company").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}

	return &user, nil
}

func (r *repo) SoftDeleteUser(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Delete(&models.User{}, id).Error)
}

func (r *repo) HardDeleteUser(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Unscoped().Delete(&models.User{}, id).Error)
}

// Company operations implementation

func (r *repo) CreateCompany(ctx context.Context, company *models.Company) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(company).Error)
}

func (r *repo) UpdateCompany(ctx context.Context, company *models.Company) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Save(company).Error)
}

func (r *repo) FindCompanyByID(ctx context.Context, id uint) (*models.Company, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var company models.Company
	if err := gormDB.First(&company, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &company, nil
}
