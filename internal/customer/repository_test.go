package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/storage"
	"comptoir/internal/testutil"
)

func sampleCustomer() domain.Customer {
	return domain.Customer{
		Name:         "Société Lumière",
		Category:     domain.CategoryEntreprise,
		Email:        "contact@lumiere.tn",
		Phone:        "+216 74 000 000",
		Address:      "Avenue Habib Bourguiba, Sfax",
		FiscalNumber: "7654321/B/M/000",
	}
}

func TestMySQLRepository_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, sampleCustomer())
	require.NoError(t, err)
	require.Positive(t, id)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Société Lumière", found.Name)
	assert.Equal(t, domain.CategoryEntreprise, found.Category)
	assert.Equal(t, "7654321/B/M/000", found.FiscalNumber)
	assert.Empty(t, found.Attachments)

	customers, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestMySQLRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, sampleCustomer())
	require.NoError(t, err)

	updated := sampleCustomer()
	updated.ID = id
	updated.Name = "Société Lumière et Fils"
	updated.Category = domain.CategoryInstallateur
	require.NoError(t, repo.Update(ctx, updated))

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Société Lumière et Fils", found.Name)
	assert.Equal(t, domain.CategoryInstallateur, found.Category)
}

func TestMySQLRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, sampleCustomer())
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.FindByID(ctx, id)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	err = repo.Delete(ctx, id)
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMySQLRepository_ExistsInTx(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, sampleCustomer())
	require.NoError(t, err)

	tx, err := storage.NewSQLTxManager(db).BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	assert.NoError(t, repo.ExistsInTx(ctx, tx, id))

	err = repo.ExistsInTx(ctx, tx, 99999)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMySQLRepository_Attachments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, sampleCustomer())
	require.NoError(t, err)

	attID, err := repo.InsertAttachment(ctx, id, domain.FileRef{
		Name:       "registre-commerce.pdf",
		StoredName: "3f1c2b9a.pdf",
	})
	require.NoError(t, err)
	require.Positive(t, attID)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, found.Attachments, 1)
	assert.Equal(t, "registre-commerce.pdf", found.Attachments[0].Name)
	assert.Equal(t, "3f1c2b9a.pdf", found.Attachments[0].StoredName)
	assert.False(t, found.Attachments[0].UploadedAt.IsZero())
}
