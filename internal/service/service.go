package service

import (
	"context"
	"errors"
	"time"

	"example.com/backstage/services/deliverynote/internal/blobstore"
	"example.com/backstage/services/deliverynote/internal/cache"
	"example.com/backstage/services/deliverynote/internal/messaging"
	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/pdf"
	"example.com/backstage/services/deliverynote/internal/repository"

	"github.com/sirupsen/logrus"
)

// Service provides the business logic of the delivery note system
type Service interface {
	// User operations
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, input UpdateUserInput) (*models.User, error)
	AttachCompany(ctx context.Context, userID uint, input CompanyInput) (*models.User, error)
	ArchiveUser(ctx context.Context, userID uint) error
	DeleteUser(ctx context.Context, userID uint) error

	// Client operations
	CreateClient(ctx context.Context, requester *models.User, input ClientInput) (*models.Client, error)
	GetClient(ctx context.Context, requester *models.User, id uint) (*models.Client, error)
	ListClients(ctx context.Context, requester *models.User) ([]*models.Client, error)
	ListArchivedClients(ctx context.Context, requester *models.User) ([]*models.Client, error)
	UpdateClient(ctx context.Context, requester *models.User, id uint, input ClientInput) (*models.Client, error)
	ArchiveClient(ctx context.Context, requester *models.User, id uint) error
	RestoreClient(ctx context.Context, requester *models.User, id uint) (*models.Client, error)
	DeleteClient(ctx context.Context, requester *models.User, id uint) error

	// Project operations
	CreateProject(ctx context.Context, requester *models.User, input ProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, requester *models.User, id uint) (*models.Project, error)
	ListProjects(ctx context.Context, requester *models.User) ([]*models.Project, error)
	ListArchivedProjects(ctx context.Context, requester *models.User) ([]*models.Project, error)
	UpdateProject(ctx context.Context, requester *models.User, id uint, input ProjectInput) (*models.Project, error)
	ArchiveProject(ctx context.Context, requester *models.User, id uint) error
	RestoreProject(ctx context.Context, requester *models.User, id uint) (*models.Project, error)
	DeleteProject(ctx context.Context, requester *models.User, id uint) error

	// DeliveryNote operations
	CreateDeliveryNote(ctx context.Context, requester *models.User, input DeliveryNoteInput) (*models.DeliveryNote, error)
	GetDeliveryNote(ctx context.Context, requester *models.User, id uint) (*models.DeliveryNote, error)
	ListDeliveryNotes(ctx context.Context, requester *models.User) ([]*models.DeliveryNote, error)
	ListArchivedDeliveryNotes(ctx context.Context, requester *models.User) ([]*models.DeliveryNote, error)
	UpdateDeliveryNote(ctx context.Context, requester *models.User, id uint, input DeliveryNoteInput) (*models.DeliveryNote, error)
	ArchiveDeliveryNote(ctx context.Context, requester *models.User, id uint) error
	RestoreDeliveryNote(ctx context.Context, requester *models.User, id uint) (*models.DeliveryNote, error)
	DeleteDeliveryNote(ctx context.Context, requester *models.User, id uint) error

	// Signing workflow and PDF retrieval
	SignDeliveryNote(ctx context.Context, requester *models.User, id uint, signature []byte, filename, signedBy string) (*models.DeliveryNote, error)
	DeliveryNotePDF(ctx context.Context, requester *models.User, id uint) (*PDFResult, error)
	RecoverPendingPDFs(ctx context.Context, limit int) (int, error)
}

// PDFResult is what the PDF retrieval path yields: either a stored URL to
// redirect to, or freshly rendered bytes to stream.
type PDFResult struct {
	URL      string
	Data     []byte
	Filename string
}

// RegisterInput carries the fields for user registration
type RegisterInput struct {
	Name     string              `json:"name" binding:"required"`
	Email    string              `json:"email" binding:"required,email"`
	Password string              `json:"password" binding:"required,min=8"`
	Personal models.PersonalInfo `json:"personal_info"`
}

// UpdateUserInput carries the mutable profile fields
type UpdateUserInput struct {
	Name     string              `json:"name"`
	Personal models.PersonalInfo `json:"personal_info"`
}

// CompanyInput carries the fields for company creation
type CompanyInput struct {
	Name      string         `json:"name" binding:"required"`
	LegalName string         `json:"legal_name"`
	TaxID     string         `json:"tax_id"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Address   models.Address `json:"address"`
	Website   string         `json:"website"`
}

// ClientInput carries the fields for client creation and update
type ClientInput struct {
	Name    string             `json:"name" binding:"required"`
	Email   string             `json:"email"`
	Phone   string             `json:"phone"`
	Contact models.ContactInfo `json:"contact"`
	Address models.Address     `json:"address"`
	TaxID   string             `json:"tax_id"`
	Notes   string             `json:"notes"`
}

// ProjectInput carries the fields for project creation and update
type ProjectInput struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	Budget      models.Money         `json:"budget"`
	HourlyRate  models.Money         `json:"hourly_rate"`
	ClientID    uint                 `json:"client_id" binding:"required"`
}

// DeliveryNoteInput carries the fields for note creation and update. Number,
// total and signature fields are derived, never client-settable.
type DeliveryNoteInput struct {
	ProjectID uint                      `json:"project_id" binding:"required"`
	Date      *time.Time                `json:"date"`
	Labor     []models.LaborEntry       `json:"labor"`
	Materials []models.MaterialEntry    `json:"materials"`
	Notes     string                    `json:"notes"`
	Status    models.DeliveryNoteStatus `json:"status"`
}

// ServiceConfig holds the configuration for creating a new Service
type ServiceConfig struct {
	Repo        repository.Repository
	RedisClient cache.RedisClient
	ServiceBus  messaging.ServiceBusClient
	Blobstore   blobstore.Client
	Renderer    *pdf.Renderer
	Log         *logrus.Logger
}

// service is the implementation of the Service interface
type service struct {
	repo        repository.Repository
	redisClient cache.RedisClient
	serviceBus  messaging.ServiceBusClient
	blobstore   blobstore.Client
	renderer    *pdf.Renderer
	log         *logrus.Logger
}

// NewService creates a new service instance
func NewService(cfg ServiceConfig) (Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("repository is required")
	}
	if cfg.Blobstore == nil {
		return nil, errors.New("blobstore client is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("pdf renderer is required")
	}
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}

	return &service{
		repo:        cfg.Repo,
		redisClient: cfg.RedisClient,
		serviceBus:  cfg.ServiceBus,
		blobstore:   cfg.Blobstore,
		renderer:    cfg.Renderer,
		log:         cfg.Log,
	}, nil
}
