package service

import (
	"context"
	"errors"

	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/repository"
)

// CreateClient creates a client owned by the requester; when the requester
// belongs to a company the client is shared at company scope
func (s *service) CreateClient(ctx context.Context, requester *models.User, input ClientInput) (*models.Client, error) {
	scope := scopeFor(requester)
	if existing, err := s.repo.FindClientByName(ctx, scope, input.Name); err == nil && existing != nil {
		return nil, ErrConflict
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	client := &models.Client{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Contact:   input.Contact,
		Address:   input.Address,
		TaxID:     input.TaxID,
		Notes:     input.Notes,
		UserID:    requester.ID,
		CompanyID: requester.CompanyID,
	}

	if err := s.repo.CreateClient(ctx, client); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return client, nil
}

// findClient loads a client and checks access, not-found first
func (s *service) findClient(ctx context.Context, requester *models.User, id uint) (*models.Client, error) {
	client, err := s.repo.FindClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authorized(requester, client.UserID, client.CompanyID) {
		return nil, ErrForbidden
	}
	return client, nil
}

func (s *service) GetClient(ctx context.Context, requester *models.User, id uint) (*models.Client, error) {
	return s.findClient(ctx, requester, id)
}

func (s *service) ListClients(ctx context.Context, requester *models.User) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, scopeFor(requester))
}

func (s *service) ListArchivedClients(ctx context.Context, requester *models.User) ([]*models.Client, error) {
	return s.repo.ListArchivedClients(ctx, scopeFor(requester))
}

func (s *service) UpdateClient(ctx context.Context, requester *models.User, id uint, input ClientInput) (*models.Client, error) {
	client, err := s.findClient(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	client.Name = input.Name
	client.Email = input.Email
	client.Phone = input.Phone
	client.Contact = input.Contact
	client.Address = input.Address
	client.TaxID = input.TaxID
	client.Notes = input.Notes

	if err := s.repo.UpdateClient(ctx, client); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return client, nil
}

func (s *service) ArchiveClient(ctx context.Context, requester *models.User, id uint) error {
	if _, err := s.findClient(ctx, requester, id); err != nil {
		return err
	}
	return s.repo.SoftDeleteClient(ctx, id)
}

// RestoreClient brings an archived client back into the active namespace
func (s *service) RestoreClient(ctx context.Context, requester *models.User, id uint) (*models.Client, error) {
	client, err := s.repo.FindArchivedClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authorized(requester, client.UserID, client.CompanyID) {
		return nil, ErrForbidden
	}

	if err := s.repo.RestoreClient(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindClientByID(ctx, id)
}

func (s *service) DeleteClient(ctx context.Context, requester *models.User, id uint) error {
	if _, err := s.findClient(ctx, requester, id); err != nil {
		return err
	}
	return s.repo.HardDeleteClient(ctx, id)
}
