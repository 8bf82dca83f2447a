package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/storage"
)

type fakeRepo struct {
	products      map[int]domain.Product
	services      map[int]domain.Service
	nextProductID int
	nextServiceID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:      map[int]domain.Product{},
		services:      map[int]domain.Service{},
		nextProductID: 1,
		nextServiceID: 1,
	}
}

func (f *fakeRepo) ListProducts(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) FindProductByID(_ context.Context, id int) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("product not found")
	}
	return &p, nil
}

func (f *fakeRepo) InsertProduct(_ context.Context, p domain.Product) (int, error) {
	p.ID = f.nextProductID
	f.nextProductID++
	f.products[p.ID] = p
	return p.ID, nil
}

func (f *fakeRepo) FindProductForUpdate(ctx context.Context, _ storage.Tx, id int) (*domain.Product, error) {
	return f.FindProductByID(ctx, id)
}

func (f *fakeRepo) AdjustStock(_ context.Context, _ storage.Tx, id int, delta int) error {
	p := f.products[id]
	p.Stock += delta
	f.products[id] = p
	return nil
}

func (f *fakeRepo) ListServices(context.Context) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(f.services))
	for _, s := range f.services {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) FindServiceByID(_ context.Context, id int) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("service not found")
	}
	return &s, nil
}

func (f *fakeRepo) FindServiceInTx(ctx context.Context, _ storage.Tx, id int) (*domain.Service, error) {
	return f.FindServiceByID(ctx, id)
}

func (f *fakeRepo) InsertService(_ context.Context, s domain.Service) (int, error) {
	s.ID = f.nextServiceID
	f.nextServiceID++
	f.services[s.ID] = s
	return s.ID, nil
}

func TestService_CreateProduct(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.CreateProduct(context.Background(), domain.Product{
		Name:  "Cable 3G2.5",
		Price: decimal.RequireFromString("100.000"),
		Stock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	found, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cable 3G2.5", found.Name)
}

func TestService_CreateProduct_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())

	tests := []struct {
		name    string
		product domain.Product
		field   string
	}{
		{
			name:    "missing name",
			product: domain.Product{Price: decimal.RequireFromString("10")},
			field:   "name",
		},
		{
			name:    "negative price",
			product: domain.Product{Name: "Cable", Price: decimal.RequireFromString("-1")},
			field:   "price",
		},
		{
			name:    "negative stock",
			product: domain.Product{Name: "Cable", Price: decimal.RequireFromString("10"), Stock: -1},
			field:   "stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tt.product)
			validationErr, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.NotEmpty(t, validationErr.Details)
			assert.Equal(t, tt.field, validationErr.Details[0].Field)
		})
	}
}

func TestService_CreateService(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.CreateService(context.Background(), domain.Service{
		Name:  "Installation",
		Price: decimal.RequireFromString("30.000"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	services, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	assert.Len(t, services, 1)
}

func TestService_CreateService_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateService(context.Background(), domain.Service{
		Price: decimal.RequireFromString("-5"),
	})
	validationErr, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, validationErr.Details, 2)
}

func TestService_GetProduct_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.GetProduct(context.Background(), 99)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
