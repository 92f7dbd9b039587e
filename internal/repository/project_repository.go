package repository

import (
	"context"

	"example.com/backstage/services/deliverynote/internal/models"
)

// Project operations implementation

func (r *repo) CreateProject(ctx context.Context, project *models.Project) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(project).Error)
}

func (r *repo) UpdateProject(ctx context.Context, project *models.Project) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Omit("Client", "User", "Company").Save(project).Error)
}

func (r *repo) FindProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := gormDB.Preload("Client").First(&project, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &project, nil
}

func (r *repo) FindArchivedProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := gormDB.Unscoped().Where("deleted_at IS NOT NULL").First(&project, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &project, nil
}

func (r *repo) FindProjectByName(ctx context.Context, scope OwnerScope, name string) (*models.Project, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var project models.Project
	query := ownerScoped(gormDB.Where("name = ?", name), scope)
	if err := query.First(&project).Error; err != nil {
		return nil, translateError(err)
	}

	return &project, nil
}

func (r *repo) ListProjects(ctx context.Context, scope OwnerScope) ([]*models.Project, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var projects []*models.Project
	query := ownerScoped(gormDB.Preload("Client"), scope)
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, translateError(err)
	}

	return projects, nil
}

func (r *repo) ListArchivedProjects(ctx context.Context, scope OwnerScope) ([]*models.Project, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}

	var projects []*models.Project
	query := ownerScoped(gormDB.Unscoped().Where("deleted_at IS NOT NULL"), scope)
	if err := query.Order("deleted_at DESC").Find(&projects).Error; err != nil {
		return nil, translateError(err)
	}

	return projects, nil
}

func (r *repo) SoftDeleteProject(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Delete(&models.Project{}, id).Error)
}

func (r *repo) RestoreProject(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Unscoped().Model(&models.Project{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error)
}

func (r *repo) HardDeleteProject(ctx context.Context, id uint) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return translateError(gormDB.Unscoped().Delete(&models.Project{}, id).Error)
}
