package catalog

import (
	"context"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/storage"
)

// Repository is the catalog persistence surface. The transactional
// methods are consumed by the document service during creates.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	FindProductByID(ctx context.Context, id int) (*domain.Product, error)
	InsertProduct(ctx context.Context, p domain.Product) (int, error)
	FindProductForUpdate(ctx context.Context, tx storage.Tx, id int) (*domain.Product, error)
	AdjustStock(ctx context.Context, tx storage.Tx, id int, delta int) error

	ListServices(ctx context.Context) ([]domain.Service, error)
	FindServiceByID(ctx context.Context, id int) (*domain.Service, error)
	FindServiceInTx(ctx context.Context, tx storage.Tx, id int) (*domain.Service, error)
	InsertService(ctx context.Context, s domain.Service) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.FindProductByID(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := validateCatalogEntry(p.Name, p.Price.IsNegative()); err != nil {
		return nil, err
	}
	if p.Stock < 0 {
		return nil, apperrors.NewValidationError("invalid product",
			apperrors.ValidationDetail{Field: "stock", Message: "stock must be non-negative"})
	}

	id, err := s.repo.InsertProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *Service) GetService(ctx context.Context, id int) (*domain.Service, error) {
	return s.repo.FindServiceByID(ctx, id)
}

func (s *Service) CreateService(ctx context.Context, svc domain.Service) (*domain.Service, error) {
	if err := validateCatalogEntry(svc.Name, svc.Price.IsNegative()); err != nil {
		return nil, err
	}

	id, err := s.repo.InsertService(ctx, svc)
	if err != nil {
		return nil, err
	}
	svc.ID = id
	return &svc, nil
}

func validateCatalogEntry(name string, negativePrice bool) error {
	var details []apperrors.ValidationDetail
	if name == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}
	if negativePrice {
		details = append(details, apperrors.ValidationDetail{
			Field:   "price",
			Message: "price must be non-negative",
		})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
