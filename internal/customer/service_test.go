package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
)

type fakeRepo struct {
	customers   map[int]domain.Customer
	attachments map[int][]domain.FileRef
	nextID      int
	nextFileID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers:   map[int]domain.Customer{},
		attachments: map[int][]domain.FileRef{},
		nextID:      1,
		nextFileID:  1,
	}
}

func (f *fakeRepo) List(context.Context) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("customer not found")
	}
	c.Attachments = f.attachments[id]
	return &c, nil
}

func (f *fakeRepo) Insert(_ context.Context, c domain.Customer) (int, error) {
	c.ID = f.nextID
	f.nextID++
	f.customers[c.ID] = c
	return c.ID, nil
}

func (f *fakeRepo) Update(_ context.Context, c domain.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return apperrors.NewNotFoundError("customer not found")
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.customers[id]; !ok {
		return apperrors.NewNotFoundError("customer not found")
	}
	delete(f.customers, id)
	delete(f.attachments, id)
	return nil
}

func (f *fakeRepo) InsertAttachment(_ context.Context, customerID int, ref domain.FileRef) (int, error) {
	ref.ID = f.nextFileID
	f.nextFileID++
	f.attachments[customerID] = append(f.attachments[customerID], ref)
	return ref.ID, nil
}

func validCustomer() domain.Customer {
	return domain.Customer{
		Name:     "Société Lumière",
		Category: domain.CategoryEntreprise,
		Email:    "contact@lumiere.tn",
	}
}

func TestService_Create(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), validCustomer())
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), domain.Customer{Category: domain.CustomerCategory("ong")})
	validationErr, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, validationErr.Details, 2)
}

func TestService_Update(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), validCustomer())
	require.NoError(t, err)

	created.Name = "Société Lumière et Fils"
	updated, err := svc.Update(context.Background(), *created)
	require.NoError(t, err)
	assert.Equal(t, "Société Lumière et Fils", updated.Name)
}

func TestService_Update_RequiresID(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Update(context.Background(), validCustomer())
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	err := svc.Delete(context.Background(), 42)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestService_AttachFile(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), validCustomer())
	require.NoError(t, err)

	ref, err := svc.AttachFile(context.Background(), created.ID, domain.FileRef{
		Name:       "registre-commerce.pdf",
		StoredName: "3f1c2b9a.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ref.ID)

	found, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, found.Attachments, 1)
	assert.Equal(t, "registre-commerce.pdf", found.Attachments[0].Name)
}

func TestService_AttachFile_UnknownCustomer(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.AttachFile(context.Background(), 42, domain.FileRef{Name: "x.pdf", StoredName: "y.pdf"})
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
