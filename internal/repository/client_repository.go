package repository

import (
	"context"

	"example.com/backstage/services/deliverynote/internal/models"
)

// Client operations implementation

func (r *repo) CreateClient(ctx context.Context, client *models.Client) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(client).Error)
}

func (r *repo) UpdateClient(ctx context.Context, client *models.Client) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Omit("User", "Company").Save(client).Error)
}

func (r *repo) FindClientByID(ctx context.Context, id uint) (*models.Client, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var client models.Client
	if err := gormDB.First(&client, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &client, nil
}

func (r *repo) FindArchivedClientByID(ctx context.Context, id uint) (*models.Client, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var client models.Client
	if err := gormDB.Unscoped().Where("deleted_at IS NOT NULL").First(&client, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &client, nil
}

func (r *repo) FindClientByName(ctx context.Context, scope OwnerScope, name string) (*models.Client, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var client models.Client
	query := ownerScoped(gormDB.Where("name = ?", name), scope)
	if err := query.First(&client).Error; err != nil {
		return nil, translateError(err)
	}

	return &client, nil
}

func (r *repo) ListClients(ctx context.Context, scope OwnerScope) ([]*models.Client, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var clients []*models.Client
	if err := ownerScoped(gormDB, scope).Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, translateError(err)
	}

	return clients, nil
}

func (r *repo) ListArchivedClients(ctx context.Context, scope OwnerScope) ([]*models.Client, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var clients []*models.Client
	query := ownerScoped(gormDB.Unscoped().Where("deleted_at IS NOT NULL"), scope)
	if err := query.Order("deleted_at DESC").Find(&clients).Error; err != nil {
		return nil, translateError(err)
	}

	return clients, nil
}

func (r *repo) SoftDeleteClient(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Delete(&models.Client{}, id).Error)
}

func (r *repo) RestoreClient(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Unscoped().Model(&models.Client{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error)
}

func (r *repo) HardDeleteClient(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Unscoped().Delete(&models.Client{}, id).Error)
}
