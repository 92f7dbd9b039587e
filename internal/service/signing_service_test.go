package service

import (
	"bytes"
	"context"
	"testing"

	"example.com/backstage/services/deliverynote/internal/models"

	"github.com/stretchr/testify/require"
)

func TestSignDeliveryNote(t *testing.T) {
	repo := newFakeRepo()
	bs := &fakeBlobstore{}
	svc := newTestService(t, repo, bs)
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)

	signed, err := svc.SignDeliveryNote(context.Background(), user, note.ID, []byte("png-bytes"), "signature.png", "Client Rep")
	require.NoError(t, err)

	require.Equal(t, models.StatusSigned, signed.Status)
	require.NotEmpty(t, signed.SignatureImage)
	require.Equal(t, "Client Rep", signed.SignedBy)
	require.NotNil(t, signed.SignedAt)
	require.NotEmpty(t, signed.PdfURL)

	// Relations are returned with the signed note
	require.NotNil(t, signed.Project)
	require.NotNil(t, signed.Client)
	require.NotNil(t, signed.User)

	// One ledger row for the signature, one for the document
	entries, err := repo.ListStorageEntriesFor(context.Background(), models.RelatedDeliveryNote, note.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.FileTypeSignature, entries[0].FileType)
	require.Equal(t, models.FileTypePDF, entries[1].FileType)
}

func TestSignAlreadySigned(t *testing.T) {
	repo := newFakeRepo()
	bs := &fakeBlobstore{}
	svc := newTestService(t, repo, bs)
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)

	_, err = svc.SignDeliveryNote(context.Background(), user, note.ID, []byte("png-bytes"), "signature.png", "Client Rep")
	require.NoError(t, err)
	uploads := len(bs.stored)

	_, err = svc.SignDeliveryNote(context.Background(), user, note.ID, []byte("other"), "other.png", "Someone Else")
	require.ErrorIs(t, err, ErrAlreadySigned)

	// The rejected attempt uploaded nothing and recorded nothing
	require.Len(t, bs.stored, uploads)
	entries, err := repo.ListStorageEntriesFor(context.Background(), models.RelatedDeliveryNote, note.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestSignRequiresFile(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)

	_, err = svc.SignDeliveryNote(context.Background(), user, note.ID, nil, "", "Client Rep")
	require.ErrorIs(t, err, ErrSignatureRequired)
}

func TestSignPreconditionOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})
	alice := seedUser(t, repo, "alice@example.com", false)
	bob := seedUser(t, repo, "bob@example.com", false)
	project := seedProject(t, repo, alice)

	note, err := svc.CreateDeliveryNote(context.Background(), alice, sampleInput(project.ID))
	require.NoError(t, err)

	// Missing note wins over missing file
	_, err = svc.SignDeliveryNote(context.Background(), alice, 9999, nil, "", "")
	require.ErrorIs(t, err, ErrNotFound)

	// Foreign note wins over missing file
	_, err = svc.SignDeliveryNote(context.Background(), bob, note.ID, nil, "", "")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSignSignatureUploadFailureMutatesNothing(t *testing.T) {
	repo := newFakeRepo()
	bs := &fakeBlobstore{failMatch: "*"}
	svc := newTestService(t, repo, bs)
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)

	_, err = svc.SignDeliveryNote(context.Background(), user, note.ID, []byte("png-bytes"), "signature.png", "Client Rep")
	require.ErrorIs(t, err, ErrExternalService)

	// The note is untouched
	after, err := svc.GetDeliveryNote(context.Background(), user, note.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, after.Status)
	require.Empty(t, after.SignatureImage)

	entries, err := repo.ListStorageEntriesFor(context.Background(), models.RelatedDeliveryNote, note.ID)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSignPDFUploadFailureLeavesSignedNote(t *testing.T) {
	repo := newFakeRepo()
	bs := &fakeBlobstore{failMatch: ".pdf"}
	svc := newTestService(t, repo, bs)
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)

	// The failure is reported, but the signed state already persisted stays
	_, err = svc.SignDeliveryNote(context.Background(), user, note.ID, []byte("png-bytes"), "signature.png", "Client Rep")
	require.ErrorIs(t, err, ErrExternalService)

	after, err := svc.GetDeliveryNote(context.Background(), user, note.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusSigned, after.Status)
	require.NotEmpty(t, after.SignatureImage)
	require.Empty(t, after.PdfURL)

	entries, err := repo.ListStorageEntriesFor(context.Background(), models.RelatedDeliveryNote, note.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, models.FileTypeSignature, entries[0].FileType)
}

func TestRecoverPendingPDFs(t *testing.T) {
	repo := newFakeRepo()
	bs := &fakeBlobstore{failMatch: ".pdf"}
	svc := newTestService(t, repo, bs)
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)
	_, err = svc.SignDeliveryNote(context.Background(), user, note.ID, []byte("png-bytes"), "signature.png", "Client Rep")
	require.ErrorIs(t, err, ErrExternalService)

	// Store recovers; the sweep repairs the gap
	bs.failMatch = ""
	recovered, err := svc.RecoverPendingPDFs(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, recovered)

	after, err := svc.GetDeliveryNote(context.Background(), user, note.ID)
	require.NoError(t, err)
	require.NotEmpty(t, after.PdfURL)

	// Nothing left to recover
	recovered, err = svc.RecoverPendingPDFs(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 0, recovered)
}

func TestDeliveryNotePDFRedirectsWhenStored(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)
	signed, err := svc.SignDeliveryNote(context.Background(), user, note.ID, []byte("png-bytes"), "signature.png", "Client Rep")
	require.NoError(t, err)

	result, err := svc.DeliveryNotePDF(context.Background(), user, note.ID)
	require.NoError(t, err)
	require.Equal(t, signed.PdfURL, result.URL)
	require.Empty(t, result.Data)
}

func TestDeliveryNotePDFRendersUnsignedOnDemand(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeBlobstore{})
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)

	result, err := svc.DeliveryNotePDF(context.Background(), user, note.ID)
	require.NoError(t, err)
	require.Empty(t, result.URL)
	require.True(t, bytes.HasPrefix(result.Data, []byte("%PDF-")))
	require.Equal(t, "delivery-note-"+note.Number+".pdf", result.Filename)
}

func TestDeliveryNotePDFRepairsSignedGapOnRead(t *testing.T) {
	repo := newFakeRepo()
	bs := &fakeBlobstore{failMatch: ".pdf"}
	svc := newTestService(t, repo, bs)
	user := seedUser(t, repo, "alice@example.com", false)
	project := seedProject(t, repo, user)

	note, err := svc.CreateDeliveryNote(context.Background(), user, sampleInput(project.ID))
	require.NoError(t, err)
	_, err = svc.SignDeliveryNote(context.Background(), user, note.ID, []byte("png-bytes"), "signature.png", "Client Rep")
	require.ErrorIs(t, err, ErrExternalService)

	bs.failMatch = ""
	result, err := svc.DeliveryNotePDF(context.Background(), user, note.ID)
	require.NoError(t, err)
	require.NotEmpty(t, result.URL)

	after, err := svc.GetDeliveryNote(context.Background(), user, note.ID)
	require.NoError(t, err)
	require.Equal(t, result.URL, after.PdfURL)
}
