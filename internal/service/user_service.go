package service

import (
	"context"
	"errors"

	"example.com/backstage/services/deliverynote/internal/auth"
	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/repository"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Register creates a new user account with a hashed password
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hashing password")
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     hash,
		Role:         models.RoleUser,
		PersonalInfo: input.Personal,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies credentials and returns the account. Unknown email and
// wrong password collapse into the same error so the endpoint does not
// reveal which one failed.
func (s *service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile returns the account with its company preloaded
func (s *service) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates the mutable profile fields
func (s *service) UpdateProfile(ctx context.Context, userID uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	user.PersonalInfo = input.Personal

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AttachCompany creates a company owned by the user and attaches the user
// to it. From then on the user's resources can be shared at company scope.
func (s *service) AttachCompany(ctx context.Context, userID uint, input CompanyInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID != nil {
		return nil, ErrConflict
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.Repository) error {
		company := &models.Company{
			Name:      input.Name,
			LegalName: input.LegalName,
			TaxID:     input.TaxID,
			Email:     input.Email,
			Phone:     input.Phone,
			Address:   input.Address,
			Website:   input.Website,
			OwnerID:   user.ID,
		}
		if err := txRepo.CreateCompany(ctx, company); err != nil {
			return err
		}
		user.CompanyID = &company.ID
		return txRepo.UpdateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"company_id": *user.CompanyID,
	}).Info("Company attached to user")

	return s.GetProfile(ctx, userID)
}

// ArchiveUser soft-deletes the account
func (s *service) ArchiveUser(ctx context.Context, userID uint) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	return s.repo.SoftDeleteUser(ctx, userID)
}

// DeleteUser removes the account for good
func (s *service) DeleteUser(ctx context.Context, userID uint) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	return s.repo.HardDeleteUser(ctx, userID)
}
