package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	// The stored password is a hash, never the plain text
	require.NotEqual(t, "s3cret-pass", user.Password)

	logged, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})

	input := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret-pass"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrConflict)
}

func TestAttachCompany(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	attached, err := svc.AttachCompany(context.Background(), user.ID, CompanyInput{
		Name:  "Acme",
		TaxID: "B12345678",
	})
	require.NoError(t, err)
	require.NotNil(t, attached.CompanyID)
	require.NotNil(t, attached.Company)
	require.Equal(t, user.ID, attached.Company.OwnerID)

	// A second company for the same account is a conflict
	_, err = svc.AttachCompany(context.Background(), user.ID, CompanyInput{Name: "Other"})
	require.ErrorIs(t, err, ErrConflict)
}
