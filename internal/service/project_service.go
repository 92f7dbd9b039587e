package service

import (
	"context"
	"errors"
	"time"

	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/repository"
)

// CreateProject creates a project for a client. The client must exist and
// be accessible to the requester: missing client is not-found, someone
// else's client is forbidden.
func (s *service) CreateProject(ctx context.Context, requester *models.User, input ProjectInput) (*models.Project, error) {
	if _, err := s.findClient(ctx, requester, input.ClientID); err != nil {
		return nil, err
	}

	scope := scopeFor(requester)
	if existing, err := s.repo.FindProjectByName(ctx, scope, input.Name); err == nil && existing != nil {
		return nil, ErrConflict
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	startDate := time.Now().UTC()
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		StartDate:   startDate,
		EndDate:     input.EndDate,
		Budget:      input.Budget,
		HourlyRate:  input.HourlyRate,
		ClientID:    input.ClientID,
		UserID:      requester.ID,
		CompanyID:   requester.CompanyID,
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return s.repo.FindProjectByID(ctx, project.ID)
}

// findProject loads a project and checks access, not-found first
func (s *service) findProject(ctx context.Context, requester *models.User, id uint) (*models.Project, error) {
	project, err := s.repo.FindProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authorized(requester, project.UserID, project.CompanyID) {
		return nil, ErrForbidden
	}
	return project, nil
}

func (s *service) GetProject(ctx context.Context, requester *models.User, id uint) (*models.Project, error) {
	return s.findProject(ctx, requester, id)
}

func (s *service) ListProjects(ctx context.Context, requester *models.User) ([]*models.Project, error) {
	return s.repo.ListProjects(ctx, scopeFor(requester))
}

func (s *service) ListArchivedProjects(ctx context.Context, requester *models.User) ([]*models.Project, error) {
	return s.repo.ListArchivedProjects(ctx, scopeFor(requester))
}

func (s *service) UpdateProject(ctx context.Context, requester *models.User, id uint, input ProjectInput) (*models.Project, error) {
	project, err := s.findProject(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	// Reassigning the project to another client goes through the same
	// access checks as creation
	if input.ClientID != 0 && input.ClientID != project.ClientID {
		if _, err := s.findClient(ctx, requester, input.ClientID); err != nil {
			return nil, err
		}
		project.ClientID = input.ClientID
	}

	project.Name = input.Name
	project.Description = input.Description
	if input.Status != "" {
		project.Status = input.Status
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	project.EndDate = input.EndDate
	project.Budget = input.Budget
	project.HourlyRate = input.HourlyRate

	if err := s.repo.UpdateProject(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return s.repo.FindProjectByID(ctx, id)
}

func (s *service) ArchiveProject(ctx context.Context, requester *models.User, id uint) error {
	if _, err := s.findProject(ctx, requester, id); err != nil {
		return err
	}
	return s.repo.SoftDeleteProject(ctx, id)
}

func (s *service) RestoreProject(ctx context.Context, requester *models.User, id uint) (*models.Project, error) {
	project, err := s.repo.FindArchivedProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authorized(requester, project.UserID, project.CompanyID) {
		return nil, ErrForbidden
	}

	if err := s.repo.RestoreProject(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindProjectByID(ctx, id)
}

func (s *service) DeleteProject(ctx context.Context, requester *models.User, id uint) error {
	if _, err := s.findProject(ctx, requester, id); err != nil {
		return err
	}
	return s.repo.HardDeleteProject(ctx, id)
}
