package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateClientDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})
	user := seedUser(t, repo, "alice@example.com", false)

	_, err := svc.CreateClient(context.Background(), user, ClientInput{Name: "Acme Corp"})
	require.NoError(t, err)

	_, err = svc.CreateClient(context.Background(), user, ClientInput{Name: "Acme Corp"})
	require.ErrorIs(t, err, ErrConflict)

	// The same name under a different owner is fine
	bob := seedUser(t, repo, "bob@example.com", false)
	_, err = svc.CreateClient(context.Background(), bob, ClientInput{Name: "Acme Corp"})
	require.NoError(t, err)
}

func TestClientOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})
	alice := seedUser(t, repo, "alice@example.com", false)
	bob := seedUser(t, repo, "bob@example.com", false)

	client, err := svc.CreateClient(context.Background(), alice, ClientInput{Name: "Acme Corp"})
	require.NoError(t, err)

	_, err = svc.GetClient(context.Background(), bob, client.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.GetClient(context.Background(), bob, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClientArchiveRestore(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})
	user := seedUser(t, repo, "alice@example.com", false)

	client, err := svc.CreateClient(context.Background(), user, ClientInput{Name: "Acme Corp"})
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveClient(context.Background(), user, client.ID))

	_, err = svc.GetClient(context.Background(), user, client.ID)
	require.ErrorIs(t, err, ErrNotFound)

	archived, err := svc.ListArchivedClients(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, archived, 1)

	restored, err := svc.RestoreClient(context.Background(), user, client.ID)
	require.NoError(t, err)
	require.Equal(t, client.ID, restored.ID)

	_, err = svc.GetClient(context.Background(), user, client.ID)
	require.NoError(t, err)
}

func TestCreateProjectValidatesClient(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})
	alice := seedUser(t, repo, "alice@example.com", false)
	bob := seedUser(t, repo, "bob@example.com", false)

	bobClient, err := svc.CreateClient(context.Background(), bob, ClientInput{Name: "Bob's Client"})
	require.NoError(t, err)

	// Missing client is not-found
	_, err = svc.CreateProject(context.Background(), alice, ProjectInput{Name: "P", ClientID: 9999})
	require.ErrorIs(t, err, ErrNotFound)

	// Someone else's client is forbidden
	_, err = svc.CreateProject(context.Background(), alice, ProjectInput{Name: "P", ClientID: bobClient.ID})
	require.ErrorIs(t, err, ErrForbidden)

	aliceClient, err := svc.CreateClient(context.Background(), alice, ClientInput{Name: "Alice's Client"})
	require.NoError(t, err)
	project, err := svc.CreateProject(context.Background(), alice, ProjectInput{Name: "P", ClientID: aliceClient.ID})
	require.NoError(t, err)
	require.Equal(t, aliceClient.ID, project.ClientID)
}
